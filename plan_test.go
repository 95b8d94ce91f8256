//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 The tabimport authors
//
// This file is part of tabimport.
//
// tabimport is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tabimport is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tabimport. If not, see https://www.gnu.org/licenses/.

package tabimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFieldMapping_EmailField: the rule applies via the explicit flag or an
// "email" target name; "mail" alone does not qualify.
func TestFieldMapping_EmailField(t *testing.T) {
	cases := []struct {
		target string
		flag   bool
		want   bool
	}{
		{"email", false, true},
		{"contact_email", false, true},
		{"Email_Address", false, true},
		{"mailing_address", false, false},
		{"mail_count", false, false},
		{"notes", false, false},
		{"notes", true, true},
	}
	for _, tc := range cases {
		fm := FieldMapping{Target: tc.target, Constraints: Constraints{Email: tc.flag}}
		assert.Equal(t, tc.want, fm.EmailField(), "target %q flag %v", tc.target, tc.flag)
	}
}

func TestImportPlan_Lookups(t *testing.T) {
	plan := &ImportPlan{Fields: []FieldMapping{
		{Source: "Full Name", Target: "full_name"},
		{Source: "Email", Target: "email"},
	}}

	fm, ok := plan.Field("email")
	assert.True(t, ok)
	assert.Equal(t, "Email", fm.Source)

	_, ok = plan.Field("missing")
	assert.False(t, ok)

	assert.Equal(t, "Full Name", plan.SourceFor("full_name"))
	assert.Equal(t, []string{"full_name", "email"}, plan.Targets())
}
