package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fincalc/internal/model"
)

func TestParseCashFlowsDropsInvalidEntries(t *testing.T) {
	assert.Equal(t, []float64{-1000, 1100}, ParseCashFlows("-1000, abc, 1100,,"))
	assert.Empty(t, ParseCashFlows(""))
	assert.Empty(t, ParseCashFlows("NaN, Inf"))
}

func TestParseRateRange(t *testing.T) {
	lo, hi, err := ParseRateRange(" 2 , 8 ")
	require.NoError(t, err)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 8.0, hi)

	for _, bad := range []string{"8,2", "5,5", "2", "2,4,6", ""} {
		_, _, err := ParseRateRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseScenarios(t *testing.T) {
	scenarios, err := ParseScenarios("bonds:1000:3:10; index : 1000 : 7 : 10;")
	require.NoError(t, err)
	assert.Equal(t, []Scenario{
		{Name: "bonds", Principal: 1000, Rate: 3, Years: 10},
		{Name: "index", Principal: 1000, Rate: 7, Years: 10},
	}, scenarios)

	_, err = ParseScenarios("bonds:1000:3")
	assert.Error(t, err)
	_, err = ParseScenarios("bonds:x:3:10")
	assert.Error(t, err)
}

func TestInputFromFields(t *testing.T) {
	in, err := InputFromFields(model.KindCompound, "EUR", map[string]string{
		FieldAmount:    " 1000 ",
		FieldRate:      "5",
		FieldYears:     "10",
		FieldCompounds: "",
		FieldGoal:      "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, Input{Kind: model.KindCompound, Currency: "EUR", Amount: 1000, Rate: 5, Years: 10}, in)
}

func TestInputFromFieldsCashFlowsAndRange(t *testing.T) {
	in, err := InputFromFields(model.KindSensitivity, "USD", map[string]string{
		FieldCashFlows: "-1000, 500, 600",
		FieldRange:     "2,8",
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1000, 500, 600}, in.CashFlows)
	assert.Equal(t, 2.0, in.RateMin)
	assert.Equal(t, 8.0, in.RateMax)
}

func TestInputFromFieldsErrors(t *testing.T) {
	_, err := InputFromFields(model.KindSimple, "USD", map[string]string{FieldAmount: "ten"})
	assert.EqualError(t, err, `amount: "ten" is not a number`)

	_, err = InputFromFields(model.KindSavings, "USD", map[string]string{FieldMonths: "2.5"})
	assert.EqualError(t, err, `months: "2.5" is not a whole number`)

	_, err = InputFromFields(model.KindSensitivity, "USD", map[string]string{FieldRange: "8,2"})
	assert.Error(t, err)
}

func TestFieldsForEveryKind(t *testing.T) {
	for _, kind := range model.Kinds {
		fields := FieldsFor(kind)
		assert.NotEmpty(t, fields, string(kind))
		seen := map[string]bool{}
		for _, f := range fields {
			assert.False(t, seen[f.Key], "duplicate field %s in %s", f.Key, kind)
			seen[f.Key] = true
		}
	}
	assert.Nil(t, FieldsFor("lottery"))
}

func TestDecodeScenarios(t *testing.T) {
	data := []byte(`scenarios:
  - name: bonds
    principal: 1000
    rate: 3
    years: 10
  - name: index
    principal: 2500
    rate: 7.5
    years: 20
`)
	scenarios, err := DecodeScenarios(data)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, Scenario{Name: "index", Principal: 2500, Rate: 7.5, Years: 20}, scenarios[1])

	_, err = DecodeScenarios([]byte("scenarios:\n  - name: x\n    yield: 3\n"))
	assert.Error(t, err)
	_, err = DecodeScenarios([]byte(""))
	assert.Error(t, err)
	_, err = DecodeScenarios([]byte("scenarios: []\n"))
	assert.Error(t, err)
}
