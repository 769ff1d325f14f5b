package handlers

// CreateShortLinkRequest is the request body for shortening a URL.
type CreateShortLinkRequest struct {
	Body struct {
		URL     string `doc:"The URL to shorten"             example:"https://example.com/very/long/path" json:"url"`
		Sponsor string `doc:"Optional sponsor of the link"   example:"acme"                               json:"sponsor,omitempty"`
		Brand   string `doc:"Optional vanity brand domain"   example:"links.example.com"                  json:"brand,omitempty"`
	}
}

// CreateShortLinkResponse is the response for a successfully created short link.
type CreateShortLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Hash     string `doc:"The short identifier" example:"585592c8"                          json:"hash"`
		ShortURL string `doc:"The full short URL"   example:"http://localhost:8888/585592c8"    json:"shortUrl"`
		Target   string `doc:"The original URL"     example:"https://example.com/very/long/path" json:"target"`
	}
}

// RedirectRequest is the request for resolving a short link.
type RedirectRequest struct {
	Hash string `doc:"The short identifier" example:"585592c8" path:"hash"`
}

// RedirectResponse redirects to the original URL with the stored mode.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// GenerateQRRequest is the request body for rendering a QR code.
type GenerateQRRequest struct {
	Body struct {
		URL     string `doc:"The URL to encode; shortened first when unknown" example:"https://example.com" json:"url"`
		Sponsor string `doc:"Optional sponsor of the link"                    example:"acme"                json:"sponsor,omitempty"`
	}
}

// GenerateQRResponse carries the rendered PNG.
type GenerateQRResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// GeolocationResponse is the location of the calling client's IP.
type GeolocationResponse struct {
	Body struct {
		Latitude  float64 `doc:"Latitude"  example:"37.386"     json:"latitude"`
		Longitude float64 `doc:"Longitude" example:"-122.0838"  json:"longitude"`
		City      string  `doc:"City"      example:"Mountain View" json:"city"`
		Country   string  `doc:"Country"   example:"United States" json:"country"`
	}
}

// UploadCSVRequest carries the CSV of URLs to shorten.
type UploadCSVRequest struct {
	RawBody []byte `contentType:"text/csv"`
}

// UploadCSVResponse carries the CSV of shortened links.
type UploadCSVResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Postgres string `json:"postgres"`
	}
}
