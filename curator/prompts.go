package curator

import (
	"fmt"
	"strings"
)

const filterPromptTemplate = `You are a personal news curator. Below is a list of Hacker News posts:

%s

Select the %d most interesting and insightful posts based on these criteria:

- Prefer posts that spark thoughtful discussions
- Avoid posts about job listings, hiring, or career advice
- Avoid posts that require deep technical expertise to appreciate
- Prefer posts about technology trends, programming languages, tools, and interesting projects
- Prefer posts with educational value or that teach something new
- Prefer posts with high engagement (comments and score)

Return ONLY a JSON array of post IDs in order of interest, with the most interesting first.
Format: [id1, id2, id3, ...]`

const summaryPromptTemplate = `You are a journalist writing for a tech newspaper. Summarize the following Hacker News discussion in the style of the New York Times.

ARTICLE TITLE: %s
ARTICLE URL: %s
POSTED BY: %s

COMMENTS:
%s

Write a concise, informative summary of the discussion (not the original article).
Focus on the key insights, interesting perspectives, and main points of disagreement.
Create a catchy, newspaper-style headline for your summary.

Format your response as:

HEADLINE: [Your headline here]

[Your summary here - about 3-4 paragraphs]`

const imagePromptTemplate = `You are a visual prompt engineer. Given the following article title, create a short, descriptive phrase that could be used to generate an image that represents the article's content.

ARTICLE TITLE: %s

The phrase should be concise (3-6 words), visually descriptive, and capture the essence of the article.
It should work well as an image generation prompt.

Return ONLY the phrase, nothing else.`

func buildFilterPrompt(postsJSON string, limit int) string {
	return fmt.Sprintf(filterPromptTemplate, postsJSON, limit)
}

func buildSummaryPrompt(title, url, by, commentsText string) string {
	if url == "" {
		url = "No URL provided"
	}
	return fmt.Sprintf(summaryPromptTemplate, title, url, by, commentsText)
}

func buildImagePrompt(headline string) string {
	return fmt.Sprintf(imagePromptTemplate, headline)
}

// joinCommentLines renders comments as "author: text" blocks the summary
// prompt consumes.
func joinCommentLines(lines []string) string {
	return strings.Join(lines, "\n\n")
}
