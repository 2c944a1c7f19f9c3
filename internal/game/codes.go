package game

// Code is a validation finding. Findings are returned, never raised.
type Code string

// Validation codes.
const (
	CodeUnknownCategory          Code = "unknown_match_category"
	CodeUnknownMatchType         Code = "unknown_match_type"
	CodeInvalidMatchTypeCategory Code = "invalid_match_type_category"
	CodeDuplicatePerformer       Code = "duplicate_wrestler"
	CodeUnknownPerformer         Code = "unknown_wrestler"
	CodeInvalidPerformerCount    Code = "invalid_wrestler_count"
	CodeAlreadyBooked            Code = "already_booked"
	CodeNotEnoughStamina         Code = "not_enough_stamina"
	CodeSlotTypeMismatch         Code = "slot_type_mismatch"
	CodeIncomplete               Code = "incomplete"
)
