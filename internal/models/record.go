// Package models defines the record types flowing through the upload pipeline.
package models

// Column names of the user_details table.
const (
	FieldTitle                  = "title"
	FieldStage                  = "stage"
	FieldFirstName              = "first_name"
	FieldSecondName             = "second_name"
	FieldContactNumber          = "contact_number"
	FieldUserID                 = "user_id"
	FieldPassword               = "password"
	FieldAlternateContactNumber = "alternate_contact_number"
	FieldDescription            = "description"
)

// RequiredFields lists the columns every row is expected to carry.
var RequiredFields = []string{
	FieldTitle,
	FieldStage,
	FieldFirstName,
	FieldSecondName,
	FieldContactNumber,
	FieldUserID,
	FieldPassword,
}

// OptionalFields lists the columns a row may omit.
var OptionalFields = []string{
	FieldAlternateContactNumber,
	FieldDescription,
}

// Fields returns all nine columns, required first.
func Fields() []string {
	fields := make([]string, 0, len(RequiredFields)+len(OptionalFields))
	fields = append(fields, RequiredFields...)

	return append(fields, OptionalFields...)
}

// RawRecord is one decoded CSV row keyed by header name.
// A missing key stands for an absent value.
type RawRecord map[string]string

// CleanRecord is a normalized user row ready for insertion.
type CleanRecord struct {
	Title                  string `json:"title"`
	Stage                  string `json:"stage"`
	FirstName              string `json:"first_name"`
	SecondName             string `json:"second_name"`
	ContactNumber          string `json:"contact_number"`
	UserID                 string `json:"user_id"`
	Password               string `json:"password"`
	AlternateContactNumber string `json:"alternate_contact_number"`
	Description            string `json:"description"`
}

// Batch is the ordered set of records derived from one input file.
type Batch []CleanRecord

// Get returns the value stored under a column name.
func (r *CleanRecord) Get(field string) string {
	if p := r.field(field); p != nil {
		return *p
	}

	return ""
}

// Set stores a value under a column name. Unknown names are ignored.
func (r *CleanRecord) Set(field, value string) {
	if p := r.field(field); p != nil {
		*p = value
	}
}

func (r *CleanRecord) field(name string) *string {
	switch name {
	case FieldTitle:
		return &r.Title
	case FieldStage:
		return &r.Stage
	case FieldFirstName:
		return &r.FirstName
	case FieldSecondName:
		return &r.SecondName
	case FieldContactNumber:
		return &r.ContactNumber
	case FieldUserID:
		return &r.UserID
	case FieldPassword:
		return &r.Password
	case FieldAlternateContactNumber:
		return &r.AlternateContactNumber
	case FieldDescription:
		return &r.Description
	default:
		return nil
	}
}

// AsRaw renders the record as a RawRecord carrying all nine columns.
func (r CleanRecord) AsRaw() RawRecord {
	raw := make(RawRecord, len(RequiredFields)+len(OptionalFields))
	for _, f := range Fields() {
		raw[f] = r.Get(f)
	}

	return raw
}
