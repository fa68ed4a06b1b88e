package services

import (
	"testing"

	"kitchen-menu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ItemDraft)
		fields []string
	}{
		{"valid", func(*models.ItemDraft) {}, nil},
		{"blank name", func(d *models.ItemDraft) { d.Name = "   " }, []string{"name"}},
		{"no description", func(d *models.ItemDraft) { d.Description = "" }, []string{"description"}},
		{"zero price", func(d *models.ItemDraft) { d.Price = 0 }, []string{"price"}},
		{"negative price", func(d *models.ItemDraft) { d.Price = -5 }, []string{"price"}},
		{"unknown course", func(d *models.ItemDraft) { d.Course = "Brunch" }, []string{"course"}},
		{"vegan but not vegetarian", func(d *models.ItemDraft) { d.Vegetarian = false }, []string{"vegan"}},
		{"several", func(d *models.ItemDraft) { d.Name = ""; d.Price = 0 }, []string{"name", "price"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := soupDraft()
			tt.mutate(&d)
			err := ValidateDraft(&d)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			got := make([]string, 0, len(verr.Fields))
			for f := range verr.Fields {
				got = append(got, f)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestValidateDraftTrims(t *testing.T) {
	d := soupDraft()
	d.Name = "  Soup "
	require.NoError(t, ValidateDraft(&d))
	assert.Equal(t, "Soup", d.Name)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"price": "must be greater than zero", "name": "is required"}}
	assert.Equal(t, "invalid menu item: name: is required; price: must be greater than zero", err.Error())
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"250", 250, false},
		{"R250", 250, false},
		{" r 1 200 ", 1200, false},
		{"", 0, true},
		{"R", 0, true},
		{"abc", 0, true},
		{"12.50", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.wantErr {
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr, "ParsePrice(%q)", tt.in)
			continue
		}
		assert.NoError(t, err, "ParsePrice(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParsePrice(%q)", tt.in)
	}
}
