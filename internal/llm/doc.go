// Package llm provides text-generation clients used to narrate report
// sections. It supports Anthropic, OpenAI and Gemini, with rate limiting
// and response caching layered on top of any provider.
package llm
