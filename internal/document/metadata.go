package document

// FieldMapping picks one submitted form field into a metadata label.
type FieldMapping struct {
	Field string
	Label string
}

// MetadataSchemas lists, per document type, which submitted fields survive
// into the verification metadata. Only fields needed for predicate checks
// (age, expiry) plus display name are kept; everything else is discarded
// with the document content.
var MetadataSchemas = map[string][]FieldMapping{
	"Aadhar": {
		{Field: "Date of Birth", Label: "dob"},
		{Field: "Full Name", Label: "name"},
	},
	"PAN": {
		{Field: "Date of Birth", Label: "dob"},
		{Field: "Full Name", Label: "name"},
	},
	"Degree": {
		{Field: "Year of Completion", Label: "graduationYear"},
		{Field: "University Name", Label: "institution"},
	},
	"Passport": {
		{Field: "Date of Birth", Label: "dob"},
		{Field: "Date of Expiry", Label: "expiry"},
		{Field: "Full Name", Label: "name"},
	},
	"Driving License": {
		{Field: "Valid Until", Label: "expiry"},
		{Field: "Date of Birth", Label: "dob"},
		{Field: "Full Name", Label: "name"},
	},
}

// ExtractMetadata applies the schema for documentType to the submitted
// fields. Unknown types and absent fields yield an empty map, never an
// error.
func ExtractMetadata(documentType string, fields map[string]string) map[string]string {
	schema, ok := MetadataSchemas[documentType]
	if !ok {
		return map[string]string{}
	}
	meta := make(map[string]string)
	for _, m := range schema {
		if val := fields[m.Field]; val != "" {
			meta[m.Label] = val
		}
	}
	return meta
}
