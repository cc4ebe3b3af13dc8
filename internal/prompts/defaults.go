// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompts

const defaultCJKToPubMed = `You are a biomedical librarian. Translate the following Chinese research topic into an optimized PubMed boolean search query.

Rules:
- Use MeSH terms where they exist, plus [Title/Abstract] synonyms.
- Combine synonyms with OR inside parentheses and distinct concepts with AND.
- Return ONLY the query, with no explanation, quotes around the whole query, or markdown.

Topic: {{.Query}}
`

const defaultEnglishOptimization = `You are a biomedical librarian. Rewrite the following research topic as an optimized PubMed boolean search query.

Rules:
- Use MeSH terms where they exist, plus [Title/Abstract] synonyms.
- Combine synonyms with OR inside parentheses and distinct concepts with AND.
- Keep the query focused; do not add unrelated concepts.
- Return ONLY the query, with no explanation or markdown.

Topic: {{.Query}}
`

const defaultFullReview = `You are an expert academic writer. Write a structured literature review in Markdown on the topic below, using ONLY the {{.NumDocs}} papers provided.

Topic: {{.Topic}}
Original question: {{.RawQuery}}
Search expression: {{.SearchTerm}}

Requirements:
- Start with a level-1 heading containing the topic.
- Sections: Background, Key Findings, Clinical or Practical Implications, Limitations, Conclusion.
- Cite papers inline by their number in square brackets, e.g. [1] or [2][5].
- Do not cite numbers that are not in the list and do not invent studies.
- Do not write a references section; it is appended automatically.

Papers:
{{.Context}}`

const defaultTopicSummary = `Summarize the common research topic of the following paper titles as a concise review title of at most 15 words. Return only the title.

{{.Titles}}
`
