package agreements

// Clause identifiers stamped onto every accepted agreement. The set is
// fixed per terms version; the row stores a copy so the trail survives
// later edits to the terms.
const (
	ClauseCommissionStructure = "commission_structure"
	ClausePaymentDeadline     = "payment_deadline_5_hours"
	ClauseDeactivationPolicy  = "account_deactivation_policy"
	ClausePlatformExclusivity = "platform_exclusivity"
	ClauseVerifiedBadgePolicy = "verified_badge_policy"
)

// StandardClauses returns the clauses included in the current terms.
func StandardClauses() []string {
	return []string{
		ClauseCommissionStructure,
		ClausePaymentDeadline,
		ClauseDeactivationPolicy,
		ClausePlatformExclusivity,
		ClauseVerifiedBadgePolicy,
	}
}
