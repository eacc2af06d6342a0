package complaint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorLabel(t *testing.T) {
	named := Complaint{ID: "c1", AuthorID: "author"}
	anonymous := Complaint{ID: "c2", AuthorID: "author", IsAnonymous: true}

	tests := []struct {
		name         string
		viewer       Requester
		complaint    Complaint
		wantLabel    string
		wantRevealed bool
	}{
		{"own anonymous", Requester{ID: "author", Role: RoleResident}, anonymous, "Ana (You)", true},
		{"own named", Requester{ID: "author", Role: RoleResident}, named, "Ana (You)", true},
		{"other named", Requester{ID: "other", Role: RoleResident}, named, "Ana", true},
		{"other anonymous", Requester{ID: "other", Role: RoleResident}, anonymous, AnonymousLabel, false},
		{"sindico sees anonymous", Requester{ID: "m", Role: RoleSindico}, anonymous, "Ana", true},
		{"admin sees anonymous", Requester{ID: "a", Role: RoleAdmin}, anonymous, "Ana", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, revealed := AuthorLabel(tt.viewer, tt.complaint, "Ana")
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantRevealed, revealed)
		})
	}
}

func TestAuthorLabelMissingName(t *testing.T) {
	label, revealed := AuthorLabel(Requester{ID: "x", Role: RoleResident}, Complaint{AuthorID: "y"}, "")
	assert.Equal(t, "Unknown", label)
	assert.True(t, revealed)
}

func TestCanView(t *testing.T) {
	c := Complaint{AuthorID: "author"}
	assert.True(t, CanView(Requester{ID: "author", Role: RoleResident}, c))
	assert.False(t, CanView(Requester{ID: "neighbour", Role: RoleResident}, c))
	assert.True(t, CanView(Requester{ID: "m", Role: RoleSindico}, c))

	deleted := c
	deleted.DeletedAt = &fixedNow
	assert.False(t, CanView(Requester{ID: "author", Role: RoleResident}, deleted))
	assert.True(t, CanView(Requester{ID: "a", Role: RoleAdmin}, deleted))
}
