// Package value implements path-based access to the nested value trees the
// form engine operates on. Trees are plain map[string]any / []any structures
// mirroring a form schema's shape. Paths are dot-delimited; a segment that
// parses as a non-negative integer addresses an array index.
//
// Resolve never panics: any nil or missing intermediate node short-circuits
// to nil. Assign never mutates its input; containers along the path are
// copied, and missing intermediates are materialized as an object or array
// depending on the following segment.
package value

import (
	"strconv"
	"strings"
)

// Resolve walks path through tree and returns the value found, or nil when
// any intermediate node is absent, nil, or of the wrong shape.
func Resolve(tree any, path string) any {
	if path == "" {
		return tree
	}

	cur := tree
	for _, seg := range strings.Split(path, ".") {
		if cur == nil {
			return nil
		}

		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil
			}
			cur = v

		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]

		default:
			return nil
		}
	}

	return cur
}

// Assign returns a copy of tree with path set to v. Intermediate containers
// are shallow-copied along the path; siblings are shared with the input.
// Missing intermediates are created: an array when the next segment is a
// non-negative integer, an object otherwise. Arrays are extended with nil
// elements as needed to reach an assigned index.
func Assign(tree any, path string, v any) any {
	if path == "" {
		return v
	}
	return assign(tree, strings.Split(path, "."), v)
}

func assign(node any, segs []string, v any) any {
	seg := segs[0]

	if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 {
		arr, _ := node.([]any)
		out := make([]any, len(arr))
		copy(out, arr)
		for len(out) <= idx {
			out = append(out, nil)
		}
		if len(segs) == 1 {
			out[idx] = v
		} else {
			out[idx] = assign(out[idx], segs[1:], v)
		}
		return out
	}

	obj, _ := node.(map[string]any)
	out := make(map[string]any, len(obj)+1)
	for k, val := range obj {
		out[k] = val
	}
	if len(segs) == 1 {
		out[seg] = v
	} else {
		out[seg] = assign(out[seg], segs[1:], v)
	}
	return out
}

// Append returns a copy of tree with item appended to the array at arrayPath.
// A missing or non-array node at arrayPath is treated as an empty array.
func Append(tree any, arrayPath string, item any) any {
	arr, _ := Resolve(tree, arrayPath).([]any)
	out := make([]any, len(arr), len(arr)+1)
	copy(out, arr)
	out = append(out, item)
	return Assign(tree, arrayPath, out)
}

// RemoveAt returns a copy of tree with the element at index removed from the
// array at arrayPath, shifting subsequent elements down. Item identity is
// positional: indices past the removed element change. Out-of-range indices
// leave the tree unchanged.
func RemoveAt(tree any, arrayPath string, index int) any {
	arr, ok := Resolve(tree, arrayPath).([]any)
	if !ok || index < 0 || index >= len(arr) {
		return tree
	}
	out := make([]any, 0, len(arr)-1)
	out = append(out, arr[:index]...)
	out = append(out, arr[index+1:]...)
	return Assign(tree, arrayPath, out)
}
