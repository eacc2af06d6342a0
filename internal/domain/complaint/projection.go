package complaint

const (
	AnonymousLabel = "Anonymous"
	unknownAuthor  = "Unknown"
	ownLabelSuffix = " (You)"
)

// AuthorLabel decides how the author of c is shown to viewer.
// revealed is false when the identity must be withheld entirely.
func AuthorLabel(viewer Requester, c Complaint, authorName string) (label string, revealed bool) {
	name := authorName
	if name == "" {
		name = unknownAuthor
	}

	switch {
	case viewer.IsManager():
		return name, true
	case viewer.ID != "" && viewer.ID == c.AuthorID:
		return name + ownLabelSuffix, true
	case !c.IsAnonymous:
		return name, true
	default:
		return AnonymousLabel, false
	}
}

// CanView reports whether viewer may open the detail of c.
// Residents only open their own complaints; deleted ones stay with managers.
func CanView(viewer Requester, c Complaint) bool {
	if viewer.IsManager() {
		return true
	}
	return viewer.ID != "" && viewer.ID == c.AuthorID && !c.IsDeleted()
}
