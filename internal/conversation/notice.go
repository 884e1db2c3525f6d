package conversation

import "fmt"

// Who performed a resolution.
const (
	ResolvedByUser  = "user"
	ResolvedByAdmin = "admin"
)

// UserResolvedNotice is appended when the owner resolves their conversation.
const UserResolvedNotice = "This conversation was marked as resolved by the user."

// AdminResolvedNotice returns the notice appended when an admin resolves a
// conversation.
func AdminResolvedNotice(notes string) string {
	return fmt.Sprintf("This conversation was marked as resolved by Admin with notes: \"%s\"", notes)
}
