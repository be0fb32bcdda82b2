// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// minDemoWords is the body length the demo article grows to before it is
// rendered. It sits inside the 1500-3000 target with some margin.
const minDemoWords = 1600

// Demo is the deterministic backend used when no live backend is available.
// The same request always yields the same text.
type Demo struct{}

// Name implements Backend.
func (Demo) Name() string { return "demo" }

// Complete implements Backend.
func (Demo) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch req.Task {
	case TaskTrendFraming:
		return demoFraming(req.Brief), nil
	case TaskArticle:
		return demoArticle(req.Brief), nil
	}
	return "", fmt.Errorf("demo: unsupported task %q", req.Task)
}

// vars fills sentence templates. Paragraph n rotates through the keyword and
// source lists so repeated templates read differently.
type vars struct {
	focus    string
	primary  string
	category string
	keywords []string
	sources  []string
}

func newVars(b Brief) vars {
	v := vars{
		focus:    b.Focus,
		primary:  b.PrimaryKeyword,
		category: b.Category,
		keywords: b.SecondaryKeywords,
		sources:  b.Sources,
	}
	if v.focus == "" {
		v.focus = b.Title
	}
	if v.category == "" || v.category == types.AllTopics {
		v.category = "US health insurance"
	}
	if v.primary == "" {
		v.primary = v.focus
	}
	if len(v.keywords) == 0 {
		v.keywords = []string{v.primary}
	}
	if len(v.sources) == 0 {
		v.sources = []string{"Healthcare.gov"}
	}
	return v
}

func (v vars) fill(tmpl string, n int) string {
	return strings.NewReplacer(
		"{focus}", v.focus,
		"{primary}", v.primary,
		"{category}", v.category,
		"{kw}", v.keywords[n%len(v.keywords)],
		"{source}", shortSource(v.sources[n%len(v.sources)]),
	).Replace(tmpl)
}

// shortSource turns "CMS (Centers for Medicare & Medicaid Services)" into "CMS".
func shortSource(s string) string {
	if i := strings.Index(s, " ("); i > 0 {
		return s[:i]
	}
	return s
}

// paragraph joins count sentences from bank, starting at offset and wrapping.
func (v vars) paragraph(bank []string, offset, count, n int) string {
	sentences := make([]string, 0, count)
	for i := 0; i < count; i++ {
		sentences = append(sentences, v.fill(bank[(offset+i)%len(bank)], n+i))
	}
	return strings.Join(sentences, " ")
}

func demoFraming(b Brief) string {
	v := newVars(b)
	kw := v.keywords
	second := kw[0]
	if len(kw) > 1 {
		second = kw[1]
	}
	return fmt.Sprintf("TRENDING REASON: %s is drawing attention as 2025 brings new rules on %s and %s, and families are comparing options before the next enrollment period.\n"+
		"BRIEF DESCRIPTION: A practical guide to %s that explains %s in plain language, with guidance drawn from %s.\n",
		v.focus, kw[0], second, v.focus, strings.Join(kw, ", "), shortSource(v.sources[0]))
}

// demoSection is one block of the synthetic article.
type demoSection struct {
	level   int
	heading string
	paras   []string
}

func demoArticle(b Brief) string {
	v := newVars(b)
	n := 0
	para := func(bank []string, count int) string {
		p := v.paragraph(bank, n, count, n)
		n++
		return p
	}

	intro := v.paragraph(introBank, 0, len(introBank), 0) +
		" This guide covers " + joinList(v.keywords) + "."

	sections := []demoSection{
		{level: 1, heading: b.Title, paras: []string{intro}},
		{level: 2, heading: v.fill("What Is {focus}?", 0), paras: []string{para(whatBank, 5), para(whatBank, 5), para(whatBank, 5)}},
		{level: 2, heading: v.fill("Key Benefits and Coverage of {focus}", 0), paras: []string{para(benefitsBank, 5)}},
		{level: 3, heading: v.fill("What {focus} Covers", 0), paras: []string{para(benefitsBank, 5), para(benefitsBank, 5)}},
		{level: 3, heading: "Costs to Expect", paras: []string{para(costsBank, 5), para(costsBank, 5)}},
		{level: 2, heading: v.fill("{focus} Eligibility Requirements", 0), paras: []string{para(eligibilityBank, 5), para(eligibilityBank, 5), para(eligibilityBank, 5)}},
		{level: 2, heading: "Recent Policy Updates for 2025", paras: []string{para(updatesBank, 5), para(updatesBank, 5), para(updatesBank, 5)}},
		{level: 2, heading: v.fill("How to Enroll in {focus}", 0), paras: enrollParagraphs(v)},
		{level: 2, heading: v.fill("Frequently Asked Questions About {focus}", 0)},
	}
	for i, q := range faqQuestions {
		sections = append(sections, demoSection{
			level:   3,
			heading: v.fill(q, i),
			paras:   []string{v.paragraph(faqAnswers[i], 0, len(faqAnswers[i]), i)},
		})
	}
	sections = append(sections, demoSection{
		level:   2,
		heading: "Conclusion",
		paras:   []string{para(conclusionBank, 4), v.paragraph(ctaBank, 0, len(ctaBank), n)},
	})

	// Grow the policy updates section until the body reaches the target.
	const updates = 6
	for countWords(sections) < minDemoWords {
		sections[updates].paras = append(sections[updates].paras, para(updatesBank, 5))
	}

	var sb strings.Builder
	for _, s := range sections {
		sb.WriteString(strings.Repeat("#", s.level))
		sb.WriteString(" ")
		sb.WriteString(s.heading)
		sb.WriteString("\n\n")
		for _, p := range s.paras {
			sb.WriteString(p)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func enrollParagraphs(v vars) []string {
	out := []string{v.fill("Enrolling in {focus} is straightforward when you follow a clear sequence. Set aside an hour, gather your paperwork, and work through the steps below in order. Each step builds on the one before it.", 0)}
	for i, step := range enrollSteps {
		out = append(out, fmt.Sprintf("%d. %s", i+1, v.fill(step, i)))
	}
	out = append(out, v.fill("After you finish, save your confirmation number and watch your mail for a welcome packet. If anything looks wrong, call the plan or the program office right away. Fixing errors early keeps your coverage on track.", 0))
	return out
}

func countWords(sections []demoSection) int {
	total := 0
	for _, s := range sections {
		for _, p := range s.paras {
			total += types.CountWords(p)
		}
	}
	return total
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

var introBank = []string{
	"{focus} is one of the most searched health coverage topics in 2025, and understanding it can save you money and stress.",
	"Rules, costs, and deadlines change every year, which leaves many people unsure where to start.",
	"This article walks through how {focus} works, who qualifies, and what has changed recently.",
	"Every section draws on guidance from trusted sources such as {source}.",
}

var whatBank = []string{
	"{focus} is part of the wider {category} landscape that millions of Americans rely on for care.",
	"At its core, it defines which services are paid for and when coverage begins.",
	"Guidance published by {source} is the most reliable starting point for understanding the rules.",
	"Many readers first look into {focus} when a life event changes their coverage needs.",
	"Knowing the vocabulary, such as {kw}, makes plan documents much easier to read.",
	"Rules can vary by state and by plan, so it pays to check the details that apply to you.",
	"The sections below break the topic into practical steps written in plain language.",
}

var benefitsBank = []string{
	"Coverage under {focus} typically includes a defined set of services with clear cost-sharing rules.",
	"Preventive services are often covered at little or no cost when you use an in-network provider.",
	"Understanding {kw} helps you predict what you will actually pay during the year.",
	"Comparing the summary of benefits side by side is the fastest way to spot meaningful differences.",
	"Some plans add extra benefits, but those extras only matter if you are likely to use them.",
	"Data from {source} shows that people who compare options each year often find lower total costs.",
	"Check whether your current doctors and pharmacies are in the network before you commit.",
}

var costsBank = []string{
	"Premiums, deductibles, copayments, and coinsurance all shape the real value of a plan.",
	"A low monthly premium can hide a high deductible that you must meet before coverage begins.",
	"Out-of-pocket maximums cap your yearly spending and protect you from very large bills.",
	"Financial help tied to {kw} may lower your costs if your income falls within certain limits.",
	"Figures published by {source} are updated each year, so always confirm the current numbers.",
	"Budget for routine care as well as unexpected visits when you estimate your yearly costs.",
}

var eligibilityBank = []string{
	"Eligibility for {focus} depends on factors such as age, income, residence, and current coverage.",
	"Most programs ask you to confirm your identity and provide documents that support your application.",
	"If you are unsure whether you qualify, the official tools from {source} can give a quick answer.",
	"Missing a deadline can delay coverage, so mark key enrollment dates on your calendar.",
	"A move or a change in household size may open a special window to apply.",
	"Reviewing {kw} requirements early prevents surprises later in the process.",
	"Keep copies of every form you submit in case you need to prove eligibility later.",
}

var updatesBank = []string{
	"Several changes for 2025 affect how {focus} works for new and existing members.",
	"Federal agencies, including {source}, publish updated premiums, limits, and thresholds each year.",
	"Changes to {kw} rules may alter what you pay or which providers you can see.",
	"Plans must send an annual notice of change, and reading it carefully is a valuable habit.",
	"Watching for these updates helps you decide whether to keep your plan or switch during open enrollment.",
	"Licensed counselors can explain how the new rules apply to your own situation.",
	"Policy analysts expect more adjustments next year, so plan to review your coverage again.",
}

var enrollSteps = []string{
	"Gather your documents, including proof of identity, residence, income, and any current coverage details.",
	"Check your eligibility for {focus} using the official tools published by {source}.",
	"Compare available plans by premium, deductible, provider network, and covered services such as {kw}.",
	"Review the drug list and provider directory for every plan you are seriously considering.",
	"Submit your application online, by phone, or in person before the enrollment deadline.",
	"Confirm your enrollment, pay your first premium, and keep copies of every notice you receive.",
}

var faqQuestions = []string{
	"Who qualifies for {focus}?",
	"When can I enroll or make changes?",
	"Where can I get free help with {focus}?",
}

var faqAnswers = [][]string{
	{
		"Eligibility depends on the program rules for {focus} and on your personal circumstances.",
		"Age, income, residence, and existing coverage are the most common factors.",
		"The screening tools from {source} give a reliable first answer in a few minutes.",
		"When in doubt, apply anyway, because the program will make the final decision.",
	},
	{
		"Most people enroll during the annual open enrollment period each fall.",
		"Qualifying life events, such as losing other coverage, can open a special enrollment period.",
		"Changes to {kw} usually take effect at the start of the following month or year.",
		"Set a reminder a few weeks before each deadline so you are never rushed.",
	},
	{
		"Free, unbiased counseling is available in every state through official assistance programs.",
		"Navigators and licensed brokers can walk you through plan comparisons at no cost.",
		"{source} also publishes plain-language guides and phone support for common questions.",
		"Bring your documents to any appointment so the counselor can give specific advice.",
	},
}

var conclusionBank = []string{
	"{focus} can feel complicated, but a step-by-step approach makes it manageable.",
	"Focus on eligibility, compare total costs, and read every annual notice you receive.",
	"Staying informed about {kw} helps you avoid gaps in coverage and unexpected bills.",
	"Use the resources from {source} whenever you need an authoritative answer.",
}

var ctaBank = []string{
	"Ready to take the next step?",
	"Visit Healthcare.gov or contact a licensed counselor today to compare your options.",
	"Start now so you can enroll with confidence before the next deadline.",
}
