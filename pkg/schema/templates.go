package schema

// Built-in document types.
const (
	DocTypeEUAIActModelCard = "eu_ai_act_model_card"
	DocTypeUSRiskAssessment = "us_risk_assessment"
	DocTypeGeneralModelCard = "general_model_card"
)

// Shared sections. The general model card is a strict subset of the EU AI
// Act schema, so common sections are declared once and reused.

func modelDetailsSection() Section {
	return Section{
		Name:  "model_details",
		Label: "Model Details",
		Fields: []FieldSpec{
			{Path: "model_details.name", Label: "Model name", Type: TypeString, Required: true,
				Prompt: "What is the name of your model?"},
			{Path: "model_details.version", Label: "Model version", Type: TypeString, Required: true,
				Prompt: "Which version of the model does this document describe?"},
			{Path: "model_details.description", Label: "Model description", Type: TypeString, Required: true,
				Prompt: "Can you give a short description of what the model does?"},
			{Path: "model_details.framework", Label: "Framework", Type: TypeString,
				Prompt: "Which framework or library was the model built with?"},
			{Path: "model_details.license", Label: "License", Type: TypeString,
				Prompt: "Under which license is the model released?"},
		},
	}
}

func intendedUseSection() Section {
	return Section{
		Name:  "intended_use",
		Label: "Intended Use",
		Fields: []FieldSpec{
			{Path: "intended_use.primary_purpose", Label: "Primary purpose", Type: TypeString, Required: true,
				Prompt: "What is the primary purpose of the model?"},
			{Path: "intended_use.intended_users", Label: "Intended users", Type: TypeString, Required: true,
				Prompt: "Who are the intended users of the model?"},
			{Path: "intended_use.use_cases", Label: "Use cases", Type: TypeStringList,
				Prompt: "Which concrete use cases is the model designed for?"},
			{Path: "intended_use.out_of_scope_uses", Label: "Out-of-scope uses", Type: TypeStringList,
				Prompt: "Are there uses the model is explicitly not intended for?"},
		},
	}
}

func performanceMetricsSection() Section {
	return Section{
		Name:  "performance_metrics",
		Label: "Performance Metrics",
		Fields: []FieldSpec{
			{Path: "performance_metrics.metrics", Label: "Metrics", Type: TypeTable, Required: true,
				Prompt: "Which performance metrics did you measure, and what were the results?"},
			{Path: "performance_metrics.evaluation_datasets", Label: "Evaluation datasets", Type: TypeStringList,
				Prompt: "On which datasets was the model evaluated?"},
		},
	}
}

func trainingDataSection() Section {
	return Section{
		Name:  "training_data",
		Label: "Training Data",
		Fields: []FieldSpec{
			{Path: "training_data.datasets", Label: "Training datasets", Type: TypeStringList, Required: true,
				Prompt: "Which datasets was the model trained on?"},
			{Path: "training_data.preprocessing", Label: "Preprocessing", Type: TypeString,
				Prompt: "How was the training data preprocessed?"},
		},
	}
}

func limitationsSection() Section {
	return Section{
		Name:  "limitations",
		Label: "Limitations",
		Fields: []FieldSpec{
			{Path: "limitations.known_limitations", Label: "Known limitations", Type: TypeStringList, Required: true,
				Prompt: "What are the known limitations of the model?"},
			{Path: "limitations.bias_considerations", Label: "Bias considerations", Type: TypeString,
				Prompt: "Are there known bias considerations for the model?"},
		},
	}
}

func ethicalConsiderationsSection() Section {
	return Section{
		Name:  "ethical_considerations",
		Label: "Ethical Considerations",
		Fields: []FieldSpec{
			{Path: "ethical_considerations.ethical_risks", Label: "Ethical risks", Type: TypeStringList, Required: true,
				Prompt: "Which ethical risks have you considered for this model?"},
			{Path: "ethical_considerations.sensitive_use", Label: "Sensitive use", Type: TypeString,
				Prompt: "Could the model be applied in sensitive contexts? If so, which?"},
		},
	}
}

func builtinSchemas() []*DocumentSchema {
	euAIAct := newDocumentSchema(
		DocTypeEUAIActModelCard,
		"EU AI Act Model Card",
		"Model card template compliant with EU AI Act requirements",
		[]Section{
			modelDetailsSection(),
			intendedUseSection(),
			{
				Name:  "risk_assessment",
				Label: "Risk Assessment",
				Fields: []FieldSpec{
					{Path: "risk_assessment.risk_level", Label: "Risk level", Type: TypeEnum, Required: true,
						Options: []string{"minimal", "limited", "high", "unacceptable"},
						Prompt:  "How do you classify the model under the EU AI Act risk levels (minimal, limited, high, unacceptable)?"},
					{Path: "risk_assessment.identified_risks", Label: "Identified risks", Type: TypeStringList, Required: true,
						Prompt: "Which risks have you identified for this system?"},
					{Path: "risk_assessment.mitigation_measures", Label: "Mitigation measures", Type: TypeStringList, Required: true,
						Prompt: "Which measures mitigate the identified risks?"},
				},
			},
			performanceMetricsSection(),
			trainingDataSection(),
			limitationsSection(),
			{
				Name:  "technical_specifications",
				Label: "Technical Specifications",
				Fields: []FieldSpec{
					{Path: "technical_specifications.input_format", Label: "Input format", Type: TypeString, Required: true,
						Prompt: "What input format does the model expect?"},
					{Path: "technical_specifications.output_format", Label: "Output format", Type: TypeString, Required: true,
						Prompt: "What output does the model produce?"},
					{Path: "technical_specifications.dependencies", Label: "Dependencies", Type: TypeStringList,
						Prompt: "Which major dependencies does the model rely on?"},
				},
			},
			{
				Name:  "human_oversight",
				Label: "Human Oversight",
				Fields: []FieldSpec{
					{Path: "human_oversight.oversight_measures", Label: "Oversight measures", Type: TypeString, Required: true,
						Prompt: "How is human oversight of the system organized?"},
					{Path: "human_oversight.human_in_the_loop", Label: "Human in the loop", Type: TypeEnum, Required: true,
						Options: []string{"yes", "no", "partial"},
						Prompt:  "Is there a human in the loop for the system's decisions (yes, no, partial)?"},
				},
			},
			ethicalConsiderationsSection(),
			{
				Name:  "compliance_information",
				Label: "Compliance Information",
				Fields: []FieldSpec{
					{Path: "compliance_information.conformity_assessment", Label: "Conformity assessment", Type: TypeString, Required: true,
						Prompt: "Which conformity assessment procedure applies to the system?"},
					{Path: "compliance_information.standards", Label: "Applied standards", Type: TypeStringList,
						Prompt: "Which harmonized standards or technical specifications were applied?"},
				},
			},
			{
				Name:  "contact_information",
				Label: "Contact Information",
				Fields: []FieldSpec{
					{Path: "contact_information.developer_contact", Label: "Developer contact", Type: TypeString, Required: true,
						Prompt: "Who can be contacted about this model, and how?"},
					{Path: "contact_information.responsible_person", Label: "Responsible person", Type: TypeString,
						Prompt: "Who is the authorized representative or responsible person?"},
				},
			},
		},
	)

	usRisk := newDocumentSchema(
		DocTypeUSRiskAssessment,
		"US Model Risk Assessment",
		"Model risk assessment template for US regulatory compliance",
		[]Section{
			modelDetailsSection(),
			{
				Name:  "model_development",
				Label: "Model Development",
				Fields: []FieldSpec{
					{Path: "model_development.methodology", Label: "Methodology", Type: TypeString, Required: true,
						Prompt: "Which modelling methodology was used?"},
					{Path: "model_development.assumptions", Label: "Assumptions", Type: TypeStringList,
						Prompt: "Which key assumptions underlie the model?"},
					{Path: "model_development.limitations_analysis", Label: "Limitations analysis", Type: TypeString, Required: true,
						Prompt: "What does your limitations analysis conclude?"},
				},
			},
			{
				Name:  "validation_results",
				Label: "Validation Results",
				Fields: []FieldSpec{
					{Path: "validation_results.validation_approach", Label: "Validation approach", Type: TypeString, Required: true,
						Prompt: "How was the model validated?"},
					{Path: "validation_results.findings", Label: "Findings", Type: TypeStringList, Required: true,
						Prompt: "What were the main validation findings?"},
					{Path: "validation_results.independent_review", Label: "Independent review", Type: TypeEnum,
						Options: []string{"yes", "no"},
						Prompt:  "Was the validation independently reviewed (yes or no)?"},
				},
			},
			performanceMetricsSection(),
			{
				Name:  "monitoring_plan",
				Label: "Monitoring Plan",
				Fields: []FieldSpec{
					{Path: "monitoring_plan.monitoring_frequency", Label: "Monitoring frequency", Type: TypeEnum, Required: true,
						Options: []string{"continuous", "daily", "weekly", "monthly", "quarterly"},
						Prompt:  "How often is the model monitored (continuous, daily, weekly, monthly, quarterly)?"},
					{Path: "monitoring_plan.drift_metrics", Label: "Drift metrics", Type: TypeStringList,
						Prompt: "Which drift metrics are tracked in production?"},
					{Path: "monitoring_plan.escalation_procedure", Label: "Escalation procedure", Type: TypeString, Required: true,
						Prompt: "What is the escalation procedure when monitoring detects a problem?"},
				},
			},
			{
				Name:  "governance_framework",
				Label: "Governance Framework",
				Fields: []FieldSpec{
					{Path: "governance_framework.model_owner", Label: "Model owner", Type: TypeString, Required: true,
						Prompt: "Who owns the model within your organization?"},
					{Path: "governance_framework.approval_authority", Label: "Approval authority", Type: TypeString, Required: true,
						Prompt: "Which authority approved the model for use?"},
				},
			},
			{
				Name:  "risk_controls",
				Label: "Risk Controls",
				Fields: []FieldSpec{
					{Path: "risk_controls.control_inventory", Label: "Control inventory", Type: TypeTable, Required: true,
						Prompt: "Which risk controls are in place, and what do they cover?"},
					{Path: "risk_controls.compensating_controls", Label: "Compensating controls", Type: TypeStringList,
						Prompt: "Are there compensating controls for residual risks?"},
				},
			},
		},
	)

	general := newDocumentSchema(
		DocTypeGeneralModelCard,
		"Model Card",
		"Generic model card template for AI model documentation",
		[]Section{
			modelDetailsSection(),
			intendedUseSection(),
			limitationsSection(),
			performanceMetricsSection(),
			trainingDataSection(),
			ethicalConsiderationsSection(),
		},
	)

	return []*DocumentSchema{euAIAct, usRisk, general}
}
