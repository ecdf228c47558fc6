package model

// Meta describes one research run. Written once by the orchestrator and
// never mutated after the report is returned.
type Meta struct {
	TemplateVersion string  `json:"template_version"`
	CompanyName     string  `json:"company_name"`
	AnalysisDate    string  `json:"analysis_date"`
	LastUpdated     string  `json:"last_updated"`
	Analyst         string  `json:"analyst"`
	ResearchStatus  string  `json:"research_status"`
	Notes           string  `json:"notes"`
	TotalTokens     int     `json:"total_tokens"`
	EstimatedCost   float64 `json:"estimated_cost_usd"`
}

// Scale holds company size indicators. Several fields come back from the
// model as either numbers or strings ("10,000+"), so they stay loosely typed.
type Scale struct {
	AnnualRevenue  string `json:"annual_revenue"`
	RevenueNumeric any    `json:"revenue_numeric,omitempty"`
	Employees      any    `json:"employees,omitempty"`
	Locations      any    `json:"locations,omitempty"`
	Countries      any    `json:"countries,omitempty"`
	Customers      any    `json:"customers,omitempty"`
}

// BusinessModel describes how the company makes money.
type BusinessModel struct {
	PrimaryRevenueModel string   `json:"primary_revenue_model"`
	KeyDifferentiators  []string `json:"key_differentiators,omitempty"`
	CustomerSegments    []string `json:"customer_segments,omitempty"`
}

// Initiative is one publicly announced strategic initiative.
type Initiative struct {
	Initiative  string   `json:"initiative"`
	Timeline    string   `json:"timeline,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Investment  string   `json:"investment,omitempty"`
	ImpactAreas []string `json:"impact_areas,omitempty"`
}

// CompanyProfile is the output of the profile stage.
type CompanyProfile struct {
	LegalName            string        `json:"legal_name"`
	BrandNames           []string      `json:"brand_names,omitempty"`
	Industry             string        `json:"industry"`
	YearFounded          any           `json:"year_founded,omitempty"`
	Headquarters         string        `json:"headquarters"`
	OwnershipStructure   string        `json:"ownership_structure,omitempty"`
	Scale                Scale         `json:"scale"`
	BusinessModel        BusinessModel `json:"business_model"`
	StrategicInitiatives []Initiative  `json:"strategic_initiatives,omitempty"`
	Sources              []string      `json:"sources,omitempty"`
	Confidence           string        `json:"confidence,omitempty"`
}

// BrandColors holds the company's brand palette as hex codes, consumed by
// the slide/document exporters.
type BrandColors struct {
	Primary    string `json:"primary_color"`
	Secondary  string `json:"secondary_color"`
	Accent     string `json:"accent_color"`
	Text       string `json:"text_color"`
	Background string `json:"background_color"`
}

// UnitAgreementType is one agreement type within a business unit.
type UnitAgreementType struct {
	Type        string `json:"type"`
	Volume      string `json:"volume,omitempty"`
	AvgValue    string `json:"avg_value,omitempty"`
	AvgTerm     string `json:"avg_term,omitempty"`
	RenewalRate string `json:"renewal_rate,omitempty"`
}

// BusinessUnit is one major division identified by the business-units stage.
type BusinessUnit struct {
	UnitID                 string              `json:"unit_id"`
	Name                   string              `json:"name"`
	Description            string              `json:"description,omitempty"`
	RevenueContribution    string              `json:"revenue_contribution,omitempty"`
	RevenuePercentage      any                 `json:"revenue_percentage,omitempty"`
	AgreementVolume        string              `json:"agreement_volume,omitempty"`
	AgreementVolumeNumeric any                 `json:"agreement_volume_numeric,omitempty"`
	ComplexityLevel        int                 `json:"complexity_level,omitempty"`
	ComplexityNotes        string              `json:"complexity_notes,omitempty"`
	KeyAgreementTypes      []UnitAgreementType `json:"key_agreement_types,omitempty"`
	PrimaryCounterparties  []string            `json:"primary_counterparties,omitempty"`
	SystemsUsed            []string            `json:"systems_used,omitempty"`
	PainPoints             []string            `json:"pain_points,omitempty"`
	Sources                []string            `json:"sources,omitempty"`
	Confidence             string              `json:"confidence,omitempty"`
}

// PriorityEvolution tracks how a strategic priority shifted over 12 months.
type PriorityEvolution struct {
	CurrentFocus    string `json:"current_focus,omitempty"`
	PreviousFocus   string `json:"previous_focus,omitempty"`
	ChangeIndicator string `json:"change_indicator,omitempty"`
}

// StrategicPriority is one of the company's top strategic priorities.
// Immutable after the priorities stage except for quote enrichment.
type StrategicPriority struct {
	PriorityID              string             `json:"priority_id"`
	PriorityName            string             `json:"priority_name"`
	PriorityDescription     string             `json:"priority_description"`
	BusinessImpact          string             `json:"business_impact,omitempty"`
	RelatedInitiatives      []string           `json:"related_initiatives,omitempty"`
	Urgency                 string             `json:"urgency,omitempty"`
	ExecutiveOwner          string             `json:"executive_owner,omitempty"`
	ExecutiveResponsibility string             `json:"executive_responsibility,omitempty"`
	ExecutiveQuotes         []Quote            `json:"executive_quotes,omitempty"`
	Evolution               *PriorityEvolution `json:"evolution,omitempty"`
	Sources                 []string           `json:"sources,omitempty"`
}

// FunctionAgreementType is one agreement type managed by a business function.
type FunctionAgreementType struct {
	Type           string `json:"type"`
	Volume         string `json:"volume,omitempty"`
	AvgValue       string `json:"avg_value,omitempty"`
	AvgTerm        string `json:"avg_term,omitempty"`
	ManagedIn      any    `json:"managed_in,omitempty"`
	RenewalPattern string `json:"renewal_pattern,omitempty"`
}

// FunctionEntry maps one business function to its agreement footprint.
type FunctionEntry struct {
	FunctionName    string                  `json:"function_name"`
	Description     string                  `json:"description,omitempty"`
	BusinessUnits   []string                `json:"business_units,omitempty"`
	SystemsUsed     []string                `json:"systems_used,omitempty"`
	AgreementTypes  []FunctionAgreementType `json:"agreement_types,omitempty"`
	TotalAgreements any                     `json:"total_agreements,omitempty"`
	Complexity      int                     `json:"complexity,omitempty"`
	PainPoints      []string                `json:"pain_points,omitempty"`
}

// LandscapeSummary totals the function-level landscape.
type LandscapeSummary struct {
	TotalEstimatedAgreements any `json:"total_estimated_agreements,omitempty"`
	TotalFunctions           int `json:"total_functions,omitempty"`
}

// AgreementLandscape is the output of the landscape stage.
type AgreementLandscape struct {
	Functions []FunctionEntry  `json:"functions"`
	Summary   LandscapeSummary `json:"summary"`
}

// ExecutiveAlignment ties an opportunity back to an executive's stated priority.
type ExecutiveAlignment struct {
	PriorityName       string `json:"priority_name,omitempty"`
	ExecutiveChampion  string `json:"executive_champion,omitempty"`
	AlignmentStatement string `json:"alignment_statement,omitempty"`
	SupportingQuote    string `json:"supporting_quote,omitempty"`
}

// ProcessState describes a current or future contracting process.
type ProcessState struct {
	ProcessDescription string   `json:"process_description,omitempty"`
	CycleTime          string   `json:"cycle_time,omitempty"`
	TargetCycleTime    string   `json:"target_cycle_time,omitempty"`
	PainPoints         []string `json:"pain_points,omitempty"`
	KeyCapabilities    []string `json:"key_capabilities,omitempty"`
}

// ValueQuantification holds the dollar math behind an opportunity. Values are
// currency strings like "$12M"; ParseCurrency turns them numeric.
type ValueQuantification struct {
	TimeSavings         string `json:"time_savings,omitempty"`
	AgreementsAffected  any    `json:"agreements_affected,omitempty"`
	RevenueAcceleration string `json:"revenue_acceleration,omitempty"`
	CostSavings         string `json:"cost_savings,omitempty"`
	TotalAnnualValue    string `json:"total_annual_value,omitempty"`
	ImplementationCost  string `json:"implementation_cost,omitempty"`
	ROIPercentage       string `json:"roi_percentage,omitempty"`
	PaybackPeriod       string `json:"payback_period,omitempty"`
}

// Metric is a single presentation metric, financial or efficiency.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Implementation describes how an opportunity would be delivered.
type Implementation struct {
	Priority     string   `json:"priority,omitempty"`
	Timeline     string   `json:"timeline,omitempty"`
	Complexity   string   `json:"complexity,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// ProductRecommendation links an opportunity to a catalog product.
type ProductRecommendation struct {
	ProductName         string   `json:"product_name"`
	Category            string   `json:"category,omitempty"`
	WhyRecommended      string   `json:"why_recommended,omitempty"`
	KeyCapabilitiesUsed []string `json:"key_capabilities_used,omitempty"`
}

// Opportunity is one contract optimization opportunity. Exactly three are
// produced per run.
type Opportunity struct {
	OpportunityID         string                  `json:"opportunity_id"`
	Title                 string                  `json:"title"`
	UseCaseName           string                  `json:"use_case_name,omitempty"`
	Description           string                  `json:"description,omitempty"`
	BusinessFunction      string                  `json:"business_function,omitempty"`
	AgreementTypes        []string                `json:"agreement_types,omitempty"`
	Capabilities          string                  `json:"capabilities,omitempty"`
	SystemsImpacted       []string                `json:"systems_impacted,omitempty"`
	BusinessUnitsImpacted []string                `json:"business_units_impacted,omitempty"`
	StrategicAlignment    []string                `json:"strategic_alignment,omitempty"`
	ExecutiveAlignment    ExecutiveAlignment      `json:"executive_alignment,omitempty"`
	CurrentState          ProcessState            `json:"current_state,omitempty"`
	FutureState           ProcessState            `json:"future_state,omitempty"`
	RiskReduction         string                  `json:"risk_reduction,omitempty"`
	ComplianceBenefits    string                  `json:"compliance_benefits,omitempty"`
	ValueQuantification   ValueQuantification     `json:"value_quantification,omitempty"`
	Metrics               []Metric                `json:"metrics,omitempty"`
	Implementation        Implementation          `json:"implementation,omitempty"`
	RecommendedProducts   []ProductRecommendation `json:"recommended_docusign_products,omitempty"`
	Sources               []string                `json:"sources,omitempty"`
	Confidence            string                  `json:"confidence,omitempty"`
}

// MatrixEntry is one agreement type plotted on the volume/complexity matrix.
type MatrixEntry struct {
	Type                  string `json:"type"`
	Volume                int    `json:"volume"`
	Complexity            int    `json:"complexity"`
	Classification        string `json:"classification,omitempty"`
	BusinessUnit          string `json:"business_unit,omitempty"`
	Description           string `json:"description,omitempty"`
	EstimatedAnnualVolume string `json:"estimated_annual_volume,omitempty"`
}

// MatrixMetadata summarizes the agreement matrix.
type MatrixMetadata struct {
	TotalTypes            int            `json:"total_types,omitempty"`
	HighestVolumeType     string         `json:"highest_volume_type,omitempty"`
	HighestComplexityType string         `json:"highest_complexity_type,omitempty"`
	QuadrantDistribution  map[string]int `json:"quadrant_distribution,omitempty"`
}

// AgreementMatrix is the output of the matrix stage.
type AgreementMatrix struct {
	AgreementTypes []MatrixEntry  `json:"agreement_types"`
	Metadata       MatrixMetadata `json:"matrix_metadata"`
}

// PriorityMapping pairs a strategic priority with the opportunity that
// supports it. Pairing is positional.
type PriorityMapping struct {
	PriorityID            string `json:"priority_id"`
	PriorityName          string `json:"priority_name"`
	PriorityDescription   string `json:"priority_description,omitempty"`
	CapabilityID          string `json:"capability_id,omitempty"`
	CapabilityName        string `json:"capability_name,omitempty"`
	CapabilityDescription string `json:"capability_description,omitempty"`
	BusinessImpact        string `json:"business_impact,omitempty"`
	Urgency               string `json:"urgency,omitempty"`
}

// PortfolioSummary is a pure rollup of the opportunity list, recomputed
// fresh every run.
type PortfolioSummary struct {
	TotalOpportunities          int    `json:"total_opportunities"`
	TotalAnnualValue            string `json:"total_annual_value"`
	TotalImplementationCost     string `json:"total_implementation_cost"`
	PortfolioROI                string `json:"portfolio_roi"`
	PortfolioPayback            string `json:"portfolio_payback"`
	HighPriorityOpportunities   int    `json:"high_priority_opportunities"`
	MediumPriorityOpportunities int    `json:"medium_priority_opportunities"`
	LowPriorityOpportunities    int    `json:"low_priority_opportunities"`
}

// SystemFinding is one software system discovered from job-posting mining.
type SystemFinding struct {
	System   string `json:"system"`
	Category string `json:"category,omitempty"`
	Evidence string `json:"evidence,omitempty"`
	Source   string `json:"source,omitempty"`
}

// PainPointFinding is one operational pain point surfaced by deep research.
type PainPointFinding struct {
	PainPoint string `json:"pain_point"`
	Function  string `json:"function,omitempty"`
	Evidence  string `json:"evidence,omitempty"`
	Source    string `json:"source,omitempty"`
}

// IndustryBenchmarks holds contracting benchmarks for an industry/revenue band.
type IndustryBenchmarks struct {
	Industry             string   `json:"industry"`
	RevenueBand          string   `json:"revenue_band"`
	AvgContractCycleDays any      `json:"avg_contract_cycle_days,omitempty"`
	TypicalCLMAdoption   string   `json:"typical_clm_adoption,omitempty"`
	CommonSystems        []string `json:"common_systems,omitempty"`
	BenchmarkNotes       string   `json:"benchmark_notes,omitempty"`
	Sources              []string `json:"sources,omitempty"`
}

// DeepResearchFindings is the output of the deep-research sub-pipeline.
type DeepResearchFindings struct {
	SoftwareStack  []SystemFinding     `json:"software_stack,omitempty"`
	StrategicGoals []string            `json:"strategic_goals,omitempty"`
	PainPoints     []PainPointFinding  `json:"pain_points,omitempty"`
	Benchmarks     *IndustryBenchmarks `json:"benchmarks,omitempty"`
	FromCache      bool                `json:"from_cache,omitempty"`
}

// ExecutiveSummary is the narrative summary of the full analysis.
type ExecutiveSummary struct {
	Overview         string   `json:"overview"`
	KeyFindings      []string `json:"key_findings,omitempty"`
	RecommendedFocus string   `json:"recommended_focus,omitempty"`
	EstimatedValue   string   `json:"estimated_value,omitempty"`
	Generated        string   `json:"generated,omitempty"` // "llm" or "fallback"
}

// DiscoveryQuestion is one question for stakeholder validation.
type DiscoveryQuestion struct {
	Function  string `json:"function,omitempty"`
	Question  string `json:"question"`
	Rationale string `json:"rationale,omitempty"`
}

// ProductUsage aggregates one recommended product across opportunities.
type ProductUsage struct {
	ProductName    string   `json:"product_name"`
	Category       string   `json:"category,omitempty"`
	RecommendedFor []string `json:"recommended_for,omitempty"`
	Capabilities   []string `json:"capabilities,omitempty"`
}

// ProductSummary rolls up product recommendations across the portfolio.
type ProductSummary struct {
	TotalProducts int            `json:"total_products"`
	Products      []ProductUsage `json:"products,omitempty"`
}

// ResearchNotes records findings, gaps, and follow-ups for the analyst.
type ResearchNotes struct {
	KeyFindings []string `json:"key_findings,omitempty"`
	DataGaps    []string `json:"data_gaps,omitempty"`
	NextSteps   []string `json:"next_steps,omitempty"`
}

// Report is the complete structured output of one end-to-end research run.
// Created once per Pipeline.Run invocation; ownership passes entirely to the
// caller on return.
type Report struct {
	Meta                      Meta                  `json:"_meta"`
	CompanyProfile            CompanyProfile        `json:"company_profile"`
	BrandColors               *BrandColors          `json:"brand_colors,omitempty"`
	BusinessUnits             []BusinessUnit        `json:"business_units"`
	StrategicPriorities       []StrategicPriority   `json:"strategic_priorities"`
	PriorityMappings          []PriorityMapping     `json:"priority_mappings"`
	AgreementLandscape        AgreementLandscape    `json:"agreement_landscape_by_function"`
	OptimizationOpportunities []Opportunity         `json:"optimization_opportunities"`
	AgreementMatrix           AgreementMatrix       `json:"agreement_matrix"`
	DeepResearch              *DeepResearchFindings `json:"deep_research_findings,omitempty"`
	PortfolioSummary          PortfolioSummary      `json:"portfolio_summary"`
	ExecutiveSummary          *ExecutiveSummary     `json:"executive_summary,omitempty"`
	DiscoveryQuestions        []DiscoveryQuestion   `json:"discovery_questions,omitempty"`
	ProductSummary            *ProductSummary       `json:"docusign_product_summary,omitempty"`
	ResearchNotes             ResearchNotes         `json:"research_notes"`
}
