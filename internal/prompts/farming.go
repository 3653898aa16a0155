package prompts

// Prompt IDs registered in the default registry.
const (
	SystemID         = "farming_system"
	CropPlannerID    = "crop_planner"
	SoilOptimizerID  = "soil_optimizer"
	PestIdentifierID = "pest_identifier"
	ChatID           = "chat"
)

func init() {
	registry := DefaultRegistry()

	registry.MustRegister(&Prompt{
		ID:      SystemID,
		Version: PromptV1,
		Content: "You are a helpful and knowledgeable farming assistant. Provide practical, actionable advice for farmers. Be specific, detailed, and consider the farmer's unique situation.",
	})

	registry.MustRegister(&Prompt{
		ID:      CropPlannerID,
		Version: PromptV1,
		Content: `As an expert agricultural advisor, recommend the best crops for a farmer with the following conditions:

Location: {{location}}
Planting Month: {{month}}
Weather Conditions: {{weather}}
Soil Type: {{soil}}
Farm Size: {{farm_size}}
Current Crops: {{crops}}
Experience: {{experience}}

Provide 3-5 specific crop recommendations with:
1. Crop name and variety
2. Why it's suitable for these conditions
3. Expected yield timeline
4. Key care tips
5. Potential challenges to watch for

Be practical and specific to the farmer's situation.`,
	})

	registry.MustRegister(&Prompt{
		ID:      SoilOptimizerID,
		Version: PromptV1,
		Content: `As a soil science expert, provide detailed recommendations for improving this farmer's soil:

Farmer Profile:
- Location: {{location}}
- Crops: {{crops}}
- Farm Size: {{farm_size}}

Soil Analysis:
- pH Level: {{ph}}
- Soil Type: {{soil_type}}
- Problems: {{problems}}

Please provide:
1. Overall soil health assessment
2. Specific amendments needed
3. Organic matter recommendations
4. Cover crop suggestions
5. Long-term soil improvement plan
6. Cost-effective solutions suitable for their farm size

Be practical and actionable.`,
	})

	registry.MustRegister(&Prompt{
		ID:      PestIdentifierID,
		Version: PromptV1,
		Content: `As an agricultural pest control expert, identify the pest and provide treatment recommendations:

Farmer Details:
- Location: {{location}}
- Farm Size: {{farm_size}}

Problem Description:
- Affected Crop: {{crop}}
- Symptoms: {{symptoms}}

Please provide:
1. Most likely pest identification (with confidence level)
2. Alternative possibilities to consider
3. Immediate control measures
4. Long-term prevention strategies
5. Organic/natural treatment options
6. Chemical treatments (as last resort) with safety guidelines
7. When to seek professional help

Be specific and practical.`,
	})

	registry.MustRegister(&Prompt{
		ID:      ChatID,
		Version: PromptV1,
		Content: `You are a friendly and knowledgeable AI farming assistant.


Farmer Profile:
- Name: {{name}}
- Location: {{location}}
- Farm Size: {{farm_size}}
- Crops: {{crops}}
- Experience: {{experience}}


Farmer's Question: {{question}}

Provide a helpful, conversational response. Be friendly but informative. Keep responses focused and practical. Use the farmer's profile information to give personalized advice.`,
	})
}
