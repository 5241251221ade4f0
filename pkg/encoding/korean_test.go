package encoding

import "testing"

func TestFixedStringToUTF8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"ascii with padding", []byte("windmill\x00\x00\x00garbage"), "windmill"},
		{"no terminator", []byte("node"), "node"},
		{"empty", []byte{0, 0, 0}, ""},
		{"euc-kr", append(UTF8ToEUCKR("풍차"), 0, 0), "풍차"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixedStringToUTF8(tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeGRFPath(t *testing.T) {
	got := NormalizeGRFPath(`data\Model\Windmill.RSM`)
	if got != "data/model/windmill.rsm" {
		t.Errorf("got %q", got)
	}
}
