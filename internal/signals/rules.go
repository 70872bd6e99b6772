package signals

import (
	"fmt"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/classification"
)

// MinRewardsCount is the transaction count at which a category earns a rewards rule.
const MinRewardsCount = 3

// Condition is the trigger half of a rule.
type Condition struct {
	Metric    string  `json:"metric"`
	Operator  string  `json:"operator"`
	Threshold float64 `json:"threshold"`
}

// Action is what a rule does when its condition holds.
type Action struct {
	Params map[string]any `json:"params,omitempty"`
	Type   string         `json:"type"`
}

// Rule is a proposed operational trigger.
type Rule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Condition Condition `json:"condition"`
	Action    Action    `json:"action"`
}

// RuleSet holds the proposed rules and a readable priority stack in generation order.
type RuleSet struct {
	Rules         []Rule   `json:"rules"`
	PriorityStack []string `json:"priorityStack"`
}

func (rs *RuleSet) add(r Rule, priority string) {
	rs.Rules = append(rs.Rules, r)
	rs.PriorityStack = append(rs.PriorityStack, priority)
}

// SynthesizeRules derives rules from the category analysis and risk assessment.
// Order: liquidity guardrail, rewards rules, gambling cap.
func SynthesizeRules(categories CategoryAnalysis, risk RiskAssessment) RuleSet {
	rs := RuleSet{Rules: []Rule{}, PriorityStack: []string{}}

	if risk.Has(RiskLiquidity) {
		rs.add(Rule{
			ID:   "liquidity-guardrail",
			Name: "Liquidity guardrail",
			Condition: Condition{
				Metric:    "daysOfRunway",
				Operator:  "<",
				Threshold: LiquidityRiskDays,
			},
			Action: Action{
				Type: "alert",
				Params: map[string]any{
					"channel":         "push",
					"pauseDiscretion": true,
					"currentRunway":   risk.DaysOfRunway,
					"criticalRunway":  LiquidityCriticalDays,
				},
			},
		}, fmt.Sprintf("Protect liquidity: alert when runway drops below %.0f days (currently %.0f).",
			LiquidityRiskDays, risk.DaysOfRunway))
	}

	counts := make(map[classification.RewardsCategory]int)
	for _, c := range categories.TopCategories {
		if rc, ok := classification.Rewards(c.Name); ok {
			counts[rc] += c.Count
		}
	}
	for _, rc := range classification.RewardsCategories() {
		n := counts[rc]
		if n < MinRewardsCount {
			continue
		}
		rs.add(Rule{
			ID:   "rewards-" + string(rc),
			Name: fmt.Sprintf("Rewards for %s", rc),
			Condition: Condition{
				Metric:    string(rc) + ".transactionCount",
				Operator:  ">=",
				Threshold: MinRewardsCount,
			},
			Action: Action{
				Type: "recommend_rewards",
				Params: map[string]any{
					"category":      string(rc),
					"observedCount": n,
				},
			},
		}, fmt.Sprintf("Route %s purchases to a rewards card (%d transactions this period).", rc, n))
	}

	if risk.GamblingTransactionCount > 0 {
		rs.add(Rule{
			ID:   "gambling-cap",
			Name: "Gambling spend cap",
			Condition: Condition{
				Metric:    "gamblingShare",
				Operator:  ">",
				Threshold: GamblingRiskShare,
			},
			Action: Action{
				Type: "cap_spend",
				Params: map[string]any{
					"currentSpend": risk.GamblingSpend,
					"currentShare": risk.GamblingShare,
				},
			},
		}, fmt.Sprintf("Cap gambling at %.0f%% of expenses (currently %.1f%%).",
			GamblingRiskShare*100, risk.GamblingShare*100))
	}

	return rs
}
