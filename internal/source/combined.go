package source

import (
	"fmt"

	"github.com/Faultbox/midgard-robj/pkg/robj"
)

// Combined evaluates several scenes and concatenates their objects in order.
type Combined []robj.Scene

// EvaluateAt returns the objects of every scene at frame.
func (c Combined) EvaluateAt(frame int) ([]robj.Object, error) {
	var objects []robj.Object
	for i, scene := range c {
		objs, err := scene.EvaluateAt(frame)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		objects = append(objects, objs...)
	}
	return objects, nil
}
