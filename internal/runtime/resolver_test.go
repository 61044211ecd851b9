package runtime_test

import (
	"errors"
	"testing"

	"github.com/aretw0/luckydraw/internal/runtime"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesTemplate = domain.PathTemplate{BaseDir: "brands", Prefix: "series_"}

func TestResolver_Static(t *testing.T) {
	r := runtime.NewResolver(nil)

	id, err := r.Resolve(domain.Static("Brand", "common/brands.txt"), domain.NewPickRecord())
	require.NoError(t, err)
	assert.Equal(t, "common/brands.txt", id)
}

func TestResolver_Dynamic(t *testing.T) {
	r := runtime.NewResolver(map[string]domain.LookupTable{
		"brand_codes": {"Asus": "asus"},
		"cpu_vendors": {"Qualcomm": "qualcomm"},
	})
	picks := domain.NewPickRecord()
	picks.Set("Brand", "Asus")
	picks.Set("CPU Vendor", "Qualcomm")

	id, err := r.Resolve(domain.Dynamic("Series", "Brand", "brand_codes", seriesTemplate), picks)
	require.NoError(t, err)
	assert.Equal(t, "brands/series_asus.txt", id)

	cpu := domain.Dynamic("CPU", "CPU Vendor", "cpu_vendors", domain.PathTemplate{
		BaseDir:   "brands",
		SubDir:    "cpu",
		Extension: ".list",
	})
	id, err = r.Resolve(cpu, picks)
	require.NoError(t, err)
	assert.Equal(t, "brands/cpu/qualcomm.list", id)
}

func TestResolver_IsPure(t *testing.T) {
	r := runtime.NewResolver(map[string]domain.LookupTable{"brand_codes": {"Asus": "asus"}})
	picks := domain.NewPickRecord()
	picks.Set("Brand", "Asus")
	step := domain.Dynamic("Series", "Brand", "brand_codes", seriesTemplate)

	first, err1 := r.Resolve(step, picks)
	second, err2 := r.Resolve(step, picks)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, picks.Len(), "resolve must not mutate picks")
}

func TestResolver_Failures(t *testing.T) {
	tables := map[string]domain.LookupTable{"brand_codes": {"Asus": "asus"}}
	r := runtime.NewResolver(tables)

	t.Run("unmapped value never falls back", func(t *testing.T) {
		picks := domain.NewPickRecord()
		picks.Set("Brand", "Mi")

		id, err := r.Resolve(domain.Dynamic("Series", "Brand", "brand_codes", seriesTemplate), picks)
		assert.Empty(t, id)

		var resErr *domain.ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.Equal(t, domain.ReasonUnmapped, resErr.Reason)
		assert.Equal(t, "Mi", resErr.Value)
		assert.Equal(t, "Series", resErr.StepKey)
	})

	t.Run("missing dependency pick", func(t *testing.T) {
		_, err := r.Resolve(domain.Dynamic("Series", "Brand", "brand_codes", seriesTemplate), domain.NewPickRecord())

		var resErr *domain.ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.Equal(t, domain.ReasonMissingPick, resErr.Reason)
	})

	t.Run("unknown table", func(t *testing.T) {
		picks := domain.NewPickRecord()
		picks.Set("Brand", "Asus")

		_, err := r.Resolve(domain.Dynamic("Series", "Brand", "nope", seriesTemplate), picks)

		var resErr *domain.ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.Equal(t, domain.ReasonUnknownTable, resErr.Reason)
	})
}
