package enums

// ActivityAction labels audit-trail entries written by mutating operations.
type ActivityAction string

const (
	ActionCreateOrder  ActivityAction = "CREATE_ORDER"
	ActionUpdateOrder  ActivityAction = "UPDATE_ORDER"
	ActionCancelOrder  ActivityAction = "CANCEL_ORDER"
	ActionDeleteOrder  ActivityAction = "DELETE_ORDER"
	ActionCreateImport ActivityAction = "CREATE_IMPORT"
)

// String implements fmt.Stringer.
func (a ActivityAction) String() string {
	return string(a)
}
