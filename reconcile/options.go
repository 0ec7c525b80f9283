// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"slices"

	"github.com/danielhkuo/quickly-ask/models"
)

// OptionPlan is the set of writes that turns a question's stored options into
// the desired list of texts.
type OptionPlan struct {
	Keep   []models.AnswerOption // matched by text, updated in place
	Create []string
	Delete []models.AnswerOption
}

// PlanOptions matches desired texts against stored options by text. Repeated
// desired texts count once, and each distinct text keeps the oldest stored
// option carrying it. Every other stored option is deleted and texts with no
// stored match are created, so after applying the plan the stored texts equal
// the distinct desired texts, whatever the option ids were.
func PlanOptions(existing []models.AnswerOption, desired []string) OptionPlan {
	desired = distinct(desired)

	pool := make(map[string][]models.AnswerOption, len(existing))
	for _, opt := range existing {
		pool[opt.Text] = append(pool[opt.Text], opt)
	}

	var plan OptionPlan
	claimed := make(map[int64]bool, len(existing))
	for _, text := range desired {
		candidates := pool[text]
		if len(candidates) == 0 {
			plan.Create = append(plan.Create, text)
			continue
		}
		plan.Keep = append(plan.Keep, candidates[0])
		claimed[candidates[0].ID] = true
		pool[text] = candidates[1:]
	}

	for _, opt := range existing {
		if !claimed[opt.ID] {
			plan.Delete = append(plan.Delete, opt)
		}
	}

	return plan
}

// distinct drops repeated texts, keeping the first occurrence of each
func distinct(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	return slices.DeleteFunc(slices.Clone(texts), func(text string) bool {
		if seen[text] {
			return true
		}
		seen[text] = true
		return false
	})
}
