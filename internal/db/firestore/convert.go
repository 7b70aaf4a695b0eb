package firestore

import (
	"cloud.google.com/go/firestore"
	"google.golang.org/genproto/googleapis/type/latlng"
)

// normalize converts Firestore-specific value types into plain Go values.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}
		return out
	case *firestore.DocumentRef:
		if t == nil {
			return nil
		}
		return t.Path
	case *latlng.LatLng:
		if t == nil {
			return nil
		}
		return map[string]any{"latitude": t.GetLatitude(), "longitude": t.GetLongitude()}
	default:
		return v
	}
}
