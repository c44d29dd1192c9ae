// Package reddit implements the post source and related-community lookup
// against the Reddit API.
//
// Requests use app-only OAuth (client credentials) against oauth.reddit.com.
// A proactive token bucket keeps the client under the configured request
// budget, and the X-Ratelimit-* response headers pause it before the
// server-side quota runs out.
//
// Errors are mapped to domain sentinels: 401 to domain.ErrAuthInvalid,
// 429 to domain.ErrRateLimited, 403/404 and redirects to search (private,
// banned or missing communities) to domain.ErrNotFound.
package reddit
