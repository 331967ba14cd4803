package domain_test

import (
	"testing"

	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEmployee_MatchesKeyword(t *testing.T) {
	t.Parallel()

	ada := &domain.Employee{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@x.com",
		Department: "R&D",
		Position:   "Engineer",
	}

	tests := []struct {
		name    string
		keyword string
		want    bool
	}{
		{name: "first name", keyword: "ada", want: true},
		{name: "last name case insensitive", keyword: "LOVELACE", want: true},
		{name: "email substring", keyword: "@x.", want: true},
		{name: "department", keyword: "r&d", want: true},
		{name: "position middle", keyword: "gine", want: true},
		{name: "no field matches", keyword: "zzz", want: false},
		{name: "fields are not concatenated", keyword: "adalovelace", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ada.MatchesKeyword(tt.keyword))
		})
	}
}

func TestEmployee_MatchesKeyword_Unicode(t *testing.T) {
	t.Parallel()

	e := &domain.Employee{FirstName: "Élodie", LastName: "Ünal"}

	assert.True(t, e.MatchesKeyword("éLO"))
	assert.True(t, e.MatchesKeyword("ün"))
}

func TestEmployee_FullName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ada Lovelace", (&domain.Employee{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&domain.Employee{FirstName: "Ada"}).FullName())
}
