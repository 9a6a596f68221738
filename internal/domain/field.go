package domain

// FieldType is the form field kind that decides how a data value is
// validated and parsed. The string values are the form builder names.
type FieldType string

const (
	FieldTypeBSN          FieldType = "bsn"
	FieldTypeCheckbox     FieldType = "checkbox"
	FieldTypeCosign       FieldType = "Cosign"
	FieldTypeCurrency     FieldType = "currency"
	FieldTypeDate         FieldType = "date"
	FieldTypeDatetime     FieldType = "datetime"
	FieldTypeEmail        FieldType = "email"
	FieldTypeFile         FieldType = "file"
	FieldTypeIBAN         FieldType = "iban"
	FieldTypeLicensePlate FieldType = "licenseplate"
	FieldTypeMap          FieldType = "map"
	FieldTypeNumber       FieldType = "number"
	FieldTypePassword     FieldType = "password"
	FieldTypePhoneNumber  FieldType = "phoneNumber"
	FieldTypePostcode     FieldType = "postcode"
	FieldTypeRadio        FieldType = "radio"
	FieldTypeSelect       FieldType = "select"
	FieldTypeSelectBoxes  FieldType = "selectBoxes"
	FieldTypeSignature    FieldType = "signature"
	FieldTypeTextfield    FieldType = "textfield"
	FieldTypeTime         FieldType = "time"
)

// FieldTypes lists every field type in declaration order.
var FieldTypes = []FieldType{
	FieldTypeBSN, FieldTypeCheckbox, FieldTypeCosign, FieldTypeCurrency, FieldTypeDate,
	FieldTypeDatetime, FieldTypeEmail, FieldTypeFile, FieldTypeIBAN, FieldTypeLicensePlate,
	FieldTypeMap, FieldTypeNumber, FieldTypePassword, FieldTypePhoneNumber, FieldTypePostcode,
	FieldTypeRadio, FieldTypeSelect, FieldTypeSelectBoxes, FieldTypeSignature, FieldTypeTextfield,
	FieldTypeTime,
}

// IsChoice reports whether values of this type are picked from Field.Choices.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeRadio, FieldTypeSelect, FieldTypeSelectBoxes:
		return true
	}
	return false
}

// Field defines one dynamic data field of a product type.
type Field struct {
	ID            string    `json:"id"`
	ProductTypeID string    `json:"-"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          FieldType `json:"type"`
	IsRequired    bool      `json:"isRequired"`
	Choices       []string  `json:"choices"`
}
