package logging

// Field names shared by every component so log output can be filtered
// consistently.
const (
	FieldFile          = "file_path"
	FieldOwner         = "owner_id"
	FieldVendor        = "vendor"
	FieldEncoding      = "encoding"
	FieldConfidence    = "confidence"
	FieldRow           = "row"
	FieldDescription   = "description"
	FieldExternalID    = "external_id"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldKeyword       = "keyword"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
)
