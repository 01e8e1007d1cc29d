package video

const transcriptAnalysisInstructions = `You are an expert at analyzing spoken content. Identify the key topics, ` +
	`stated strategies, decision-making patterns, and communication style present in the transcript. ` +
	`Focus on what the speaker actually says about how they work and operate.`

const visualAnalysisInstructions = `You are an expert at inferring behavioral and operational patterns from ` +
	`video context. Describe what visual analysis of this kind of footage would typically reveal about ` +
	`the subject's working style, environment, and habits. Be concrete and avoid speculation beyond the ` +
	`provided context.`

const visualAnalysisPrompt = `Analyze the visual aspects of a video with the following context:

Person context: %s
Analysis focus: %s
Video duration: %.1f seconds

Describe likely visual observations relevant to the analysis focus: body language, workspace setup,
tools in use, and any demonstrated workflows.`

const strategyExtractionInstructions = `You are a strategy analyst. From the combined audio and visual ` +
	`analysis of a video, extract the subject's operational strategies, decision-making frameworks, ` +
	`productivity methods, and success patterns. Organize the extraction under clear headings.`

const strategyExtractionPrompt = `Extract strategies from this video analysis.

Person context: %s
Analysis focus: %s

Audio analysis:
%s

Visual analysis:
%s

Transcript excerpt:
%s`

const insightsInstructions = `You are an expert at converting strategy analysis into actionable insights. ` +
	`Respond with a JSON array where each element has the fields: category, insight, implementation, ` +
	`timeline, resources_needed, success_metrics, priority, complexity. Return only the JSON array.`

const insightsPrompt = `Generate actionable insights from this strategy extraction:

%s

Analysis focus: %s
Person context: %s

Produce 3 to 5 insights covering the most transferable strategies.`

const documentInstructions = `You are a professional strategy consultant. Produce a polished markdown ` +
	`strategy document with sections for executive summary, key strategies, implementation roadmap, ` +
	`and success metrics.`

const documentPrompt = `Create a comprehensive strategy document.

Subject: %s
Analysis focus: %s
Video duration: %.1f seconds

Audio analysis summary:
%s

Visual analysis summary:
%s

Strategy extraction:
%s

Number of actionable insights identified: %d`

const recommendationsInstructions = `You are an implementation planner. Based on a strategy document, ` +
	`produce practical implementation recommendations. Respond with a JSON array where each element has ` +
	`the fields: title, description, rationale, steps, timeline, dependencies, expected_impact, risk_level. ` +
	`Return only the JSON array.`

const recommendationsPrompt = `Generate implementation recommendations from this strategy document:

%s

The document is backed by %d actionable insights. Produce 3 concrete recommendations ordered by impact.`
