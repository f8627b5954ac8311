package binding

// Key priority lists. Order matters everywhere: earlier entries win.
var (
	// labelKeys are probed when an object has to be shown as an option label.
	labelKeys = []string{"label", "name", "title", "value", "id", "code"}

	// explicitValueKeys hold an object's technical value when it carries one.
	explicitValueKeys = []string{"value", "default", "defaultValue", "initial", "initialValue", "current", "selected"}

	// optionArrayKeys hold option arrays inside an object resolved by path.
	optionArrayKeys = []string{"options", "values", "items", "list", "choices", "data"}

	// identifierKeys name the record member that says which field a record
	// belongs to in "list of field definitions" payloads.
	identifierKeys = []string{
		"fieldId", "field_id", "fieldKey", "fieldName", "field",
		"target", "name", "key", "column", "property", "attribute", "id",
	}

	structuralValueSuffixes  = []string{"Value", "Default", "Initial"}
	structuralOptionSuffixes = []string{"Options", "Choices", "List"}
	genericValueKeys         = []string{"value", "default", "defaultValue", "initial", "initialValue", "current"}
	genericOptionKeys        = []string{"options", "choices", "values", "items", "list"}

	// objectOptionSuffixes and payloadOptionKeys drive the generic pass over
	// plain object payloads.
	objectOptionSuffixes = []string{"Options", "List"}
	payloadOptionKeys    = []string{"options", "values", "items", "data", "list"}
)

var identifierKeySet = sanitizedSet(identifierKeys)

func sanitizedSet(keys []string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		out[Sanitize(key)] = struct{}{}
	}
	return out
}
