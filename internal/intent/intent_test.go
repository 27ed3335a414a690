package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyvo/advisor/internal/domain"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name    string
		message string
		want    domain.Intent
	}{
		{
			name:    "General Question",
			message: "What is IRDAI?",
			want:    domain.Intent{Type: TypeGeneralQuery},
		},
		{
			name:    "Health Recommendation",
			message: "Can you recommend a good health insurance plan?",
			want: domain.Intent{
				Type:                TypeRecommendation,
				InsuranceType:       domain.InsuranceHealth,
				NeedsRecommendation: true,
			},
		},
		{
			name:    "Term Comparison",
			message: "What is the difference between these two term plans?",
			want: domain.Intent{
				Type:            TypeComparison,
				InsuranceType:   domain.InsuranceTermLife,
				NeedsComparison: true,
			},
		},
		{
			name:    "Motor Hint",
			message: "Do I need insurance for my bike?",
			want: domain.Intent{
				Type:          TypeGeneralQuery,
				InsuranceType: domain.InsuranceMotor,
			},
		},
		{
			name:    "Policy Question About Waiting Period",
			message: "How long is the waiting period on mediclaim plans?",
			want: domain.Intent{
				Type:              TypePolicyQuestion,
				InsuranceType:     domain.InsuranceHealth,
				AskingAboutPolicy: true,
			},
		},
		{
			name:    "Health Wins Over Motor",
			message: "medical cover for a car accident",
			want: domain.Intent{
				Type:          TypeGeneralQuery,
				InsuranceType: domain.InsuranceHealth,
			},
		},
		{
			name:    "Flags Are Independent",
			message: "Recommend the best policy and compare the premium options",
			want: domain.Intent{
				Type:                TypeRecommendation,
				NeedsRecommendation: true,
				NeedsComparison:     true,
				AskingAboutPolicy:   true,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.message))
		})
	}
}

func TestExtractSlotsRoundTrip(t *testing.T) {
	slots := ExtractSlots(
		"I am 35 years old, family of 4, budget 15000, income 12 lakh per annum, non-smoker",
		nil,
	)

	require.NotNil(t, slots.Age)
	assert.Equal(t, 35, *slots.Age)
	assert.Equal(t, 4, slots.FamilySize)
	require.NotNil(t, slots.BudgetMonthly)
	assert.Equal(t, 15000.0, *slots.BudgetMonthly)
	require.NotNil(t, slots.AnnualIncome)
	assert.Equal(t, 1200000.0, *slots.AnnualIncome)
	assert.False(t, slots.Smoker)
}

func TestExtractSlotsCoveragePhrase(t *testing.T) {
	slots := ExtractSlots("I need 10 lakhs coverage", nil)
	require.NotNil(t, slots.CoverageNeeded)
	assert.Equal(t, 1000000.0, *slots.CoverageNeeded)
}

func TestExtractSlotsVariants(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		check func(t *testing.T, s Slots)
	}{
		{
			name: "Age With Colon",
			text: "age: 42, looking for term cover",
			check: func(t *testing.T, s Slots) {
				require.NotNil(t, s.Age)
				assert.Equal(t, 42, *s.Age)
			},
		},
		{
			name: "Budget With Rupee Symbol And Commas",
			text: "my budget: ₹2,500 per month",
			check: func(t *testing.T, s Slots) {
				require.NotNil(t, s.BudgetMonthly)
				assert.Equal(t, 2500.0, *s.BudgetMonthly)
			},
		},
		{
			name: "Absolute Income",
			text: "salary: 1500000",
			check: func(t *testing.T, s Slots) {
				require.NotNil(t, s.AnnualIncome)
				assert.Equal(t, 1500000.0, *s.AnnualIncome)
			},
		},
		{
			name: "Family Members Phrasing",
			text: "cover for 5 members",
			check: func(t *testing.T, s Slots) {
				assert.Equal(t, 5, s.FamilySize)
			},
		},
		{
			name: "Smoker Positive",
			text: "I have been smoking for a decade",
			check: func(t *testing.T, s Slots) {
				assert.True(t, s.Smoker)
			},
		},
		{
			name: "No Smoker Keywords Leaves Default",
			text: "I want a health plan",
			check: func(t *testing.T, s Slots) {
				assert.False(t, s.Smoker)
			},
		},
		{
			name: "Nothing Extractable",
			text: "tell me about insurance",
			check: func(t *testing.T, s Slots) {
				assert.Nil(t, s.Age)
				assert.Nil(t, s.CoverageNeeded)
				assert.Nil(t, s.BudgetMonthly)
				assert.Nil(t, s.AnnualIncome)
				assert.Equal(t, 1, s.FamilySize)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, ExtractSlots(tc.text, nil))
		})
	}
}

func TestExtractSlotsScansHistory(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "I am 29 years old"},
		{Role: domain.RoleAssistant, Content: "Thanks! What coverage do you need?"},
	}
	slots := ExtractSlots("Something around 25 lakhs cover", history)

	require.NotNil(t, slots.Age)
	assert.Equal(t, 29, *slots.Age)
	require.NotNil(t, slots.CoverageNeeded)
	assert.Equal(t, 2500000.0, *slots.CoverageNeeded)
}
