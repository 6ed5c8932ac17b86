package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ProbeKeys are the object keys tried, in order, for a results array.
var ProbeKeys = []string{"stores", "items", "data", "output"}

const resultsKey = "results"

// Canonical is the {status, results} view of a coerced payload.
type Canonical struct {
	Status  string
	Message string
	Results gjson.Result
}

type recognizer func(v gjson.Result) (Canonical, bool)

// recognizers run in priority order; the first match wins.
var recognizers = []recognizer{
	bareArray,
	resultsField,
	probedKey,
	anyObjectArray,
}

// Coerce reshapes a parsed payload into the canonical envelope.
// It reports false when no candidate results array exists.
func Coerce(v gjson.Result) (Canonical, bool) {
	for _, r := range recognizers {
		if c, ok := r(v); ok {
			return c, true
		}
	}
	return Canonical{}, false
}

func bareArray(v gjson.Result) (Canonical, bool) {
	if !isObjectArray(v) {
		return Canonical{}, false
	}
	return Canonical{Status: "ok", Results: v}, true
}

func resultsField(v gjson.Result) (Canonical, bool) {
	if !v.IsObject() {
		return Canonical{}, false
	}
	results := v.Get(resultsKey)
	if !results.IsArray() {
		return Canonical{}, false
	}
	status := strings.ToLower(strings.TrimSpace(v.Get("status").String()))
	if status == "" {
		status = "ok"
	}
	return Canonical{Status: status, Message: v.Get("message").String(), Results: results}, true
}

func probedKey(v gjson.Result) (Canonical, bool) {
	if !v.IsObject() {
		return Canonical{}, false
	}
	for _, key := range ProbeKeys {
		if arr := v.Get(key); isObjectArray(arr) {
			return Canonical{Status: "ok", Results: arr}, true
		}
	}
	return Canonical{}, false
}

func anyObjectArray(v gjson.Result) (Canonical, bool) {
	if !v.IsObject() {
		return Canonical{}, false
	}
	var found gjson.Result
	v.ForEach(func(key, value gjson.Result) bool {
		if isProbed(key.String()) {
			return true
		}
		if isObjectArray(value) && len(value.Array()) > 0 {
			found = value
			return false
		}
		return true
	})
	if !found.Exists() {
		return Canonical{}, false
	}
	return Canonical{Status: "ok", Results: found}, true
}

func isProbed(key string) bool {
	if key == resultsKey {
		return true
	}
	for _, k := range ProbeKeys {
		if k == key {
			return true
		}
	}
	return false
}

// isObjectArray reports whether v is an array whose elements are all objects.
func isObjectArray(v gjson.Result) bool {
	if !v.IsArray() {
		return false
	}
	ok := true
	v.ForEach(func(_, el gjson.Result) bool {
		ok = el.IsObject()
		return ok
	})
	return ok
}
