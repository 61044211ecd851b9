package dsl

import (
	"testing"

	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_PhoneFlow(t *testing.T) {
	b := New("phone")

	b.Table("brand_codes", map[string]string{"Asus": "asus", "Xiaomi": "mi"})

	b.Static("Brand", "common/brands.txt")
	b.Dynamic("Series").
		From("Brand").
		Via("brand_codes").
		In("brands").
		Prefix("series_")
	b.Static("CPU Vendor", "common/cpu_vendors.txt")
	b.Dynamic("CPU").
		From("CPU Vendor").
		Map(map[string]string{"MediaTek": "mtk"}).
		In("brands").
		Sub("cpu").
		Ext(".list")

	f, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "phone", f.Name)
	assert.Equal(t, []string{"Brand", "Series", "CPU Vendor", "CPU"}, f.Keys())

	series := f.Steps[1]
	assert.True(t, series.IsDynamic())
	assert.Equal(t, "brands/series_mi.txt", series.Template.Compose(f.Tables[series.Table]["Xiaomi"]))

	cpu := f.Steps[3]
	assert.Equal(t, "CPU", cpu.Table)
	assert.Equal(t, "brands/cpu/mtk.list", cpu.Template.Compose(f.Tables["CPU"]["MediaTek"]))
}

func TestBuilder_TableExtends(t *testing.T) {
	b := New("t")
	b.Table("codes", map[string]string{"A": "a"})
	b.Table("codes", map[string]string{"B": "b"})
	b.Static("Letter", "letters.txt")
	b.Dynamic("Word").From("Letter").Via("codes")

	f := b.MustBuild()
	assert.Equal(t, domain.LookupTable{"A": "a", "B": "b"}, f.Tables["codes"])
}

func TestBuilder_BuildIsolatesTables(t *testing.T) {
	b := New("t")
	b.Table("codes", map[string]string{"A": "a"})
	b.Static("Letter", "letters.txt")
	b.Dynamic("Word").From("Letter").Via("codes")

	f := b.MustBuild()
	b.Table("codes", map[string]string{"B": "b"})

	_, ok := f.Tables["codes"].Lookup("B")
	assert.False(t, ok)
}

func TestBuilder_DecomposedTableKeyResolves(t *testing.T) {
	b := New("t")
	b.Table("brand_codes", map[string]string{"Xpe\u0301ria": "xperia"})
	b.Static("Brand", "brands.txt")
	b.Dynamic("Series").From("Brand").Via("brand_codes")

	f := b.MustBuild()
	fragment, ok := f.Tables["brand_codes"].Lookup("Xp\u00e9ria")
	assert.True(t, ok)
	assert.Equal(t, "xperia", fragment)
}

func TestBuilder_InvalidFlow(t *testing.T) {
	b := New("broken")
	b.Dynamic("Series").From("Brand").Via("brand_codes")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"broken"`)
	assert.NotEmpty(t, domain.ValidationErrors(err))

	assert.Panics(t, func() { b.MustBuild() })
}
