package binding

import "github.com/goliatone/go-formflow/pkg/jsonvalue"

// fieldIdentity is the set of spellings a field may appear under in a payload.
type fieldIdentity struct {
	variants  []string
	sanitized map[string]struct{}
}

func identityOf(field FieldDescriptor) fieldIdentity {
	variants := FieldVariants(field)
	sanitized := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		if key := Sanitize(variant); key != "" {
			sanitized[key] = struct{}{}
		}
	}
	return fieldIdentity{variants: variants, sanitized: sanitized}
}

func (id fieldIdentity) matches(text string) bool {
	_, ok := id.sanitized[Sanitize(text)]
	return ok
}

func (id fieldIdentity) valueCandidates() []string {
	out := append([]string{}, id.variants...)
	out = append(out, suffixed(id.variants, structuralValueSuffixes)...)
	out = append(out, genericValueKeys...)
	return uniqueStrings(out)
}

func (id fieldIdentity) optionCandidates() []string {
	out := suffixed(id.variants, structuralOptionSuffixes)
	out = append(out, genericOptionKeys...)
	return uniqueStrings(out)
}

// recordBelongsTo reports whether one of record's member names is a spelling
// of the field, or whether an identifier member (fieldId, name, key, ...)
// holds one.
func recordBelongsTo(members []jsonvalue.Member, id fieldIdentity) bool {
	for _, member := range members {
		if id.matches(member.Key) {
			return true
		}
	}
	for _, member := range members {
		if _, ok := identifierKeySet[Sanitize(member.Key)]; !ok {
			continue
		}
		if text, ok := ToPrimitiveString(member.Value); ok && id.matches(text) {
			return true
		}
	}
	return false
}

type recordAggregate struct {
	value    any
	hasValue bool
	pool     []any
}

// bindRecords runs the structural pass over an array payload and fills the
// gaps left in result.
func bindRecords(result Result, items []any, fields []FieldDescriptor) {
	type record struct {
		members []jsonvalue.Member
		lookup  *RecordLookup
	}
	var records []record
	for _, item := range items {
		members, ok := jsonvalue.Members(item)
		if !ok {
			continue
		}
		lookup, _ := NewRecordLookup(item)
		records = append(records, record{members: members, lookup: lookup})
	}

	matchedAny := false
	for _, field := range fields {
		if field.ID == "" {
			continue
		}
		id := identityOf(field)
		valueKeys := id.valueCandidates()
		optionKeys := id.optionCandidates()

		var (
			agg     recordAggregate
			matched bool
		)
		for _, rec := range records {
			if !recordBelongsTo(rec.members, id) {
				continue
			}
			matched = true

			value, hasValue := rec.lookup.Resolve(valueKeys, isNonEmpty)
			if hasValue && !agg.hasValue {
				agg.value, agg.hasValue = value, true
			}
			if options, ok := rec.lookup.Resolve(optionKeys, isArray); ok {
				agg.pool = append(agg.pool, options.([]any)...)
			} else if list, ok := value.([]any); ok && hasValue {
				agg.pool = append(agg.pool, list...)
			}
		}
		if !matched {
			continue
		}
		matchedAny = true
		result.set(field.ID, agg.resolve(field), true)
	}

	if matchedAny || !isFlatList(items) {
		return
	}
	shared := NormalizeOptions(items)
	if len(shared) == 0 {
		return
	}
	for _, field := range fields {
		if field.ID == "" || !field.IsSelect() {
			continue
		}
		result.set(field.ID, ResolvedFieldData{Options: shared}, true)
	}
}

func (agg recordAggregate) resolve(field FieldDescriptor) ResolvedFieldData {
	var data ResolvedFieldData
	if agg.hasValue {
		if list, ok := agg.value.([]any); ok {
			if !field.IsSelect() {
				for _, item := range list {
					if converted, ok := ConvertInitialValue(field, item); ok {
						data.InitialValue, data.HasInitialValue = converted, true
						break
					}
				}
			}
		} else if isObject(agg.value) {
			data.InitialValue, data.HasInitialValue = initialFromObject(field, agg.value)
		} else {
			data.InitialValue, data.HasInitialValue = ConvertInitialValue(field, agg.value)
		}
	}
	if field.IsSelect() && len(agg.pool) > 0 {
		data.Options = NormalizeOptions(agg.pool)
	}
	return data
}

// isFlatList reports whether items only holds scalars and objects whose
// members are all scalars.
func isFlatList(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if isArray(item) {
			return false
		}
		members, ok := jsonvalue.Members(item)
		if !ok {
			continue
		}
		for _, member := range members {
			if isArray(member.Value) || isObject(member.Value) {
				return false
			}
		}
	}
	return true
}
