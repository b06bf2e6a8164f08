package schema

// Default returns the schema for the Bank of Canada Valet auction groups.
// A fresh value is returned on every call.
func Default() *Schema {
	return &Schema{
		Fields: []FieldMapping{
			{Name: "ID", Suffix: "_id"},
			{Name: "ISIN", Suffix: "_ISIN"},
			{Name: "AMOUNT", Suffix: "_AMOUNT"},
			{Name: "ALLOTMENT RATIO", Suffix: "_ALLOTMENT_RATIO"},
			{Name: "AUCTION DATE", Suffix: "_AUCTION_DATE"},
			{Name: "AVERAGE PRICE", Suffix: "_AVG_PRICE"},
			{Name: "AVERAGE YIELD", Suffix: "_AVG_YIELD"},
			{Name: "MATURITY DATE", Suffix: "_MATURITY_DATE"},
			{Name: "BIDDING DEADLINE", Suffix: "_BID_DEADLINE"},
			{Name: "COVERAGE", Suffix: "_COVERAGE"},
			{Name: "HIGH YIELD", Suffix: "_HIGH_YIELD"},
			{Name: "LOW YIELD", Suffix: "_LOW_YIELD"},
			{Name: "TAIL (BPS)", Suffix: "_TAIL"},
			{Name: "TERM (DAYS)", Suffix: "_TERM_DAYS"},
			{Name: "TERM (YEARS)", Suffix: "_TERM_YEARS"},
			{Name: "ISSUE DATE", Suffix: "_ISSUE_DATE"},
			{Name: "OUTSTANDING PRIOR", Suffix: "_OUTSTANDING_PRIOR"},
			{Name: "OUTSTANDING AFTER", Suffix: "_OUTSTANDING_AFTER"},
			{Name: "STATUS", Suffix: "_STATUS"},
			{Name: "COUPON RATE", Suffix: "_COUPON_RATE"},
			{Name: "TOTAL AMOUNT MATURING", Suffix: "_TOTAL_AMOUNT_MATURING"},
			{Name: "INTEREST END DATE", Suffix: "_INTEREST_END_DATE"},
			{Name: "INTEREST START DATE", Suffix: "_INTEREST_START_DATE"},
			{Name: "INTEREST RATE", Suffix: "_INTEREST_RATE"},
			{Name: "BOC MIN REPURCHASE", Suffix: "_BOC_MIN_REPURCHASE"},
			{Name: "BOC PURCHASE", Suffix: "_BOC_PURCHASE"},
			{Name: "TOTAL AMOUNT SUBMITTED by GSD", Suffix: "_TOTAL_SUBMITTED"},
			{Name: "TOTAL NON COMPETE SUBMITTED by GSP", Suffix: "_NON_COMPETE_AMOUNT"},
		},
		Drop: []string{
			"_ISIN",
			"_ALLOTMENT_RATIO",
			"_ALLOTMENT_YIELD",
			"_AMOUNT",
			"_AUCTION_DATE",
			"_AVG_PRICE",
			"_AVG_YIELD",
			"_MATURITY_DATE",
			"_BID_DEADLINE",
			"_COVERAGE",
			"_HIGH_YIELD",
			"_LOW_YIELD",
			"_TAIL",
			"_TYPE",
			"_TERM_DAYS",
			"_TERM_YEARS",
			"_ISSUE_DATE",
			"_OUTSTANDING_PRIOR",
			"_OUTSTANDING_AFTER",
			"_OUTSTANDING_INC_RECONSTITUTED",
			"_STATUS",
			"_COUPON_RATE",
			"_TOTAL_AMOUNT_MATURING",
			"_INTEREST_END_DATE",
			"_INTEREST_START_DATE",
			"_INTEREST_RATE",
			"_BOC_MIN_REPURCHASE",
			"_BOC_HELD",
			"_BOC_PURCHASE",
			"_TOTAL_SUBMITTED",
			"_NON_COMPETE_AMOUNT",
			"_id",
			"_KEY",
			"_BOC_MIN_PURCHASE",
			"_ALLOTMENT_PRICE",
			"_ISSUANCE_THRU_SYNDICATION",
			"_MEDIAN_YIELD",
			"_LOW_5_YIELD",
			"_INDEX_RATIO",
			"_SETTLEMENT_DATE",
			"_AMOUNT_REPURCHASED",
			"_TOTAL_AMOUNT_REPURCHASED",
			"_CUTOFF_YIELD",
			"_MAX_TOTAL_PURCHASE",
		},
	}
}
