package analyzer

// BindingRules resolve table and column references.
var BindingRules = []Rule{
	{"bind", bind},
}

// NormalizationRules prepare boolean clauses for the rewriting rules.
var NormalizationRules = []Rule{
	{"normalize_conditions", normalizeConditions},
}

// TypingRules compute the type of every expression.
var TypingRules = []Rule{
	{"compute_types", computeTypes},
}

// RewritingRules eliminate the subqueries that can be turned into joins.
var RewritingRules = []Rule{
	{"flatten_subqueries", flattenSubqueries},
}

// GroupingRules collapse the joins that follow declared group relationships
// into group table accesses.
var GroupingRules = []Rule{
	{"group_tables", groupTables},
}
