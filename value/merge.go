package value

// Merge deep-merges overlay onto base and returns the result; neither input
// is mutated.
//
// Semantics:
//   - Mapping onto Mapping: recursive per-key merge.
//   - Any other combination of kinds: overlay wholesale replaces base.
//   - A Null overlay value at a mapping key removes that key from the base
//     mapping entirely (rather than setting it to null).
//   - Sequences are never concatenated: an overlay sequence fully replaces
//     the base sequence.
func Merge(base, overlay *Value) *Value {
	if base == nil {
		base = Null()
	}

	if overlay == nil {
		overlay = Null()
	}

	if base.IsMapping() && overlay.IsMapping() {
		baseMap, _ := base.AsMapping()
		overlayMap, _ := overlay.AsMapping()

		result := baseMap.Clone()

		overlayMap.Range(func(key string, ov *Value) bool {
			if ov.IsNull() {
				result.Delete(key)

				return true
			}

			if bv, ok := result.Get(key); ok {
				result.Set(key, Merge(bv, ov))
			} else {
				result.Set(key, ov.Clone())
			}

			return true
		})

		return NewMapping(result)
	}

	return overlay.Clone()
}
