package classify

import "regexp"

// Category tags a pattern rule by the intent it detects.
type Category string

const (
	CategoryClaim       Category = "claim"
	CategoryProgress    Category = "progress"
	CategoryAbandonment Category = "abandonment"
	CategoryHedge       Category = "hedge"
	CategoryCommitment  Category = "commitment"
)

// Rule is one tagged pattern in the classifier's ordered rule list.
// Rules are evaluated with any-match semantics against lowercased text.
type Rule struct {
	Name     string
	Category Category
	Pattern  *regexp.Regexp
}

// claimRules match first-person volunteering phrases, explicit assignment
// requests, and claiming/dibs self-assignment language.
var claimRules = []Rule{
	{"future-work", CategoryClaim, regexp.MustCompile(`i'?ll?\s+(work\s+on|take|handle|tackle|fix|solve)\s+(this\s+)?issue`)},
	{"present-work", CategoryClaim, regexp.MustCompile(`i'?m\s+(working\s+on|taking|handling|tackling|fixing|solving)\s+(this\s+)?issue`)},
	{"let-me", CategoryClaim, regexp.MustCompile(`let\s+me\s+(work\s+on|take|handle|tackle|fix|solve)\s+(this\s+)?issue`)},
	{"want-to", CategoryClaim, regexp.MustCompile(`i\s+want\s+to\s+(work\s+on|take|handle|tackle|fix|solve)\s+(this\s+)?issue`)},
	{"please-assign", CategoryClaim, regexp.MustCompile(`please\s+(assign|give)\s+(this\s+)?issue\s+(to\s+)?me`)},
	{"can-you-assign", CategoryClaim, regexp.MustCompile(`can\s+you\s+(assign|give)\s+(this\s+)?issue\s+(to\s+)?me`)},
	{"like-to-be-assigned", CategoryClaim, regexp.MustCompile(`i'?d\s+like\s+to\s+(be\s+)?(assigned|work\s+on)\s+(this\s+)?issue`)},
	{"assign-me", CategoryClaim, regexp.MustCompile(`assign\s+(this\s+)?issue\s+(to\s+)?me`)},
	{"claiming-taking", CategoryClaim, regexp.MustCompile(`i'?m\s+(claiming|taking)\s+(this\s+)?issue`)},
	{"claiming", CategoryClaim, regexp.MustCompile(`claiming\s+(this\s+)?issue`)},
	{"dibs", CategoryClaim, regexp.MustCompile(`dibs\s+on\s+(this\s+)?issue`)},
}

// progressRules match mentions of real work in flight. A comment matching
// any of these is reporting progress, not merely claiming, so progress
// suppresses claim classification.
var progressRules = []Rule{
	{"pull-request", CategoryProgress, regexp.MustCompile(`pull\s+request|pr\s+#\d+`)},
	{"commit", CategoryProgress, regexp.MustCompile(`commit|committed|committing`)},
	{"branch", CategoryProgress, regexp.MustCompile(`branch|branched|branching`)},
	{"fix-ready", CategoryProgress, regexp.MustCompile(`fix\s+(is\s+)?ready|fix\s+(is\s+)?done|fix\s+(is\s+)?complete`)},
	{"working-on-fix", CategoryProgress, regexp.MustCompile(`working\s+on\s+(a\s+)?(fix|solution|implementation)`)},
	{"implementing", CategoryProgress, regexp.MustCompile(`implementing|implementation`)},
	{"coding", CategoryProgress, regexp.MustCompile(`coding|coding\s+(up|on)`)},
	{"debugging", CategoryProgress, regexp.MustCompile(`debugging|debugged`)},
	{"testing", CategoryProgress, regexp.MustCompile(`testing|tested`)},
	{"status-update", CategoryProgress, regexp.MustCompile(`progress|update|status`)},
}

// abandonmentRules match negative-intent phrases that close an open claim.
var abandonmentRules = []Rule{
	{"sorry-cant", CategoryAbandonment, regexp.MustCompile(`sorry,?\s+(i\s+)?(can'?t|cannot)\s+(work\s+on|continue|finish)`)},
	{"cant-continue", CategoryAbandonment, regexp.MustCompile(`i\s+(can'?t|cannot)\s+(work\s+on|continue|finish)`)},
	{"unable", CategoryAbandonment, regexp.MustCompile(`unable\s+to\s+(work\s+on|continue|finish)`)},
	{"no-longer", CategoryAbandonment, regexp.MustCompile(`no\s+longer\s+(working\s+on|interested)`)},
	{"passing", CategoryAbandonment, regexp.MustCompile(`passing\s+(on|this)`)},
	{"someone-else", CategoryAbandonment, regexp.MustCompile(`someone\s+else\s+can\s+(take|handle)`)},
	{"no-time", CategoryAbandonment, regexp.MustCompile(`i\s+(don'?t|do not)\s+(have time|want)`)},
	{"give-up", CategoryAbandonment, regexp.MustCompile(`i\s+(quit|give up)`)},
	{"not-interested", CategoryAbandonment, regexp.MustCompile(`not\s+(interested|available)`)},
	{"too-busy", CategoryAbandonment, regexp.MustCompile(`too\s+busy`)},
}

// hedgeRules match uncertain language that lowers claim confidence.
var hedgeRules = []Rule{
	{"maybe", CategoryHedge, regexp.MustCompile(`maybe|might|probably|perhaps`)},
	{"think-guess", CategoryHedge, regexp.MustCompile(`i\s+(think|guess|suppose)`)},
	{"not-sure", CategoryHedge, regexp.MustCompile(`not\s+sure|unsure`)},
	{"if-time", CategoryHedge, regexp.MustCompile(`if\s+i\s+(have|find)\s+time`)},
	{"when-time", CategoryHedge, regexp.MustCompile(`when\s+i\s+(get|have)\s+(time|chance)`)},
}

// commitmentRules match high-certainty phrasing that raises claim confidence.
var commitmentRules = []Rule{
	{"definitely", CategoryCommitment, regexp.MustCompile(`definitely|absolutely|certainly|surely`)},
	{"i-will", CategoryCommitment, regexp.MustCompile(`i\s+(will|can|am going to)`)},
	{"count-me-in", CategoryCommitment, regexp.MustCompile(`count\s+me\s+in`)},
	{"on-it", CategoryCommitment, regexp.MustCompile(`i'm\s+on\s+it`)},
	{"lets-do-this", CategoryCommitment, regexp.MustCompile(`let's\s+do\s+this`)},
	{"got-this", CategoryCommitment, regexp.MustCompile(`i\s+got\s+this`)},
}

// claim type discriminators
var (
	assignmentTypePattern   = regexp.MustCompile(`assign|please\s+(assign|give)`)
	selfAssignedTypePattern = regexp.MustCompile(`claiming|dibs|taking`)
)

// matchAny reports whether any rule in the list matches the text.
// Text must already be lowercased by the caller.
func matchAny(rules []Rule, text string) bool {
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Rules returns the full ordered rule list across all categories,
// useful for pattern-by-pattern testing.
func Rules() []Rule {
	all := make([]Rule, 0, len(claimRules)+len(progressRules)+len(abandonmentRules)+len(hedgeRules)+len(commitmentRules))
	all = append(all, claimRules...)
	all = append(all, progressRules...)
	all = append(all, abandonmentRules...)
	all = append(all, hedgeRules...)
	all = append(all, commitmentRules...)
	return all
}
