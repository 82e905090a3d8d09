package handlers

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// ShortenResponse is the response for a successfully shortened URL.
type ShortenResponse struct {
	Body struct {
		ShortCode string `doc:"The 6-character short code" example:"Ab3dE9"                      json:"short_code"`
		ShortURL  string `doc:"The full short URL"         example:"http://localhost:8000/Ab3dE9" json:"short_url"`
	}
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"Ab3dE9" path:"code"`
}

// RedirectResponse redirects the client to the original URL. Location must
// stay a top-level field: huma only maps header tags on the output struct
// itself.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}
