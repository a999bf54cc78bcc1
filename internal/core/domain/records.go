package domain

// Resource domain shapes as consumed by the surfaces, after wire mapping.
// Identifiers are server-assigned and immutable once created; a zero ID marks
// a record that has not been persisted yet. The `validate` tags drive the
// local required-field pre-check performed before a create or update is sent.

// Patient is a person admitted to or treated by the clinic.
type Patient struct {
	ID     int64  `validate:"-"`
	Name   string `validate:"required"`
	Age    int    `validate:"required,gt=0"`
	Gender string `validate:"-"`
}

// InventoryItem is a stocked supply (medication, material, equipment).
type InventoryItem struct {
	ID       int64  `validate:"-"`
	Name     string `validate:"required"`
	Quantity int    `validate:"required,gt=0"`
}

// Employee is a staff member on the clinic payroll.
type Employee struct {
	ID       int64  `validate:"-"`
	Name     string `validate:"required"`
	Position string `validate:"required"`
}

// Room is a physical room of the clinic.
type Room struct {
	ID     int64  `validate:"-"`
	Number string `validate:"required"`
	Kind   string `validate:"required"`
}

// MedicalRecord is one clinical history entry for a patient.
type MedicalRecord struct {
	ID        int64  `validate:"-"`
	PatientID int64  `validate:"required"`
	Date      string `validate:"required"`
	Diagnosis string `validate:"required"`
	Treatment string `validate:"-"`
	Notes     string `validate:"-"`
}

// Appointment is a scheduled visit. The legacy backend keys appointments by
// patient name rather than id, so the domain shape does too.
type Appointment struct {
	ID          int64  `validate:"-"`
	PatientName string `validate:"required"`
	Date        string `validate:"required"`
	Time        string `validate:"required"`
	Reason      string `validate:"required"`
}

// User is an application account. Password is only meaningful on create; the
// backend never returns it.
type User struct {
	ID        int64  `validate:"-"`
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	Role      Role   `validate:"required"`
	CreatedBy int64  `validate:"-"`
}
