package entity

type Picture struct {
	ID         int64
	SeedDataID int64

	// exactly one of Data / ObjectKey is set, depending on the pictures backend
	Data      []byte
	ObjectKey *string
}
