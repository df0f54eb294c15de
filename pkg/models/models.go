package models

// MediaURL is an image source discovered in the timeline DOM
type MediaURL struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical"`
}

// VideoPageURL is a link to a post page that hosts a video
type VideoPageURL struct {
	Href     string `json:"href"`
	Absolute string `json:"absolute"`
}

// HandoffReport describes what the video handoff did
type HandoffReport struct {
	BatchFile     string   `json:"batch_file,omitempty"`
	URLCount      int      `json:"url_count"`
	Invoked       bool     `json:"invoked"`
	ManualCommand string   `json:"manual_command,omitempty"`
	Args          []string `json:"args,omitempty"`
	ExitError     string   `json:"exit_error,omitempty"`
}

// Result summarises one collect run for a single profile
type Result struct {
	Username         string         `json:"username"`
	Iterations       int            `json:"iterations"`
	ImagesFound      int            `json:"images_found"`
	ImagesDownloaded int            `json:"images_downloaded"`
	ImageFailures    int            `json:"image_failures"`
	VideoURLs        []string       `json:"video_urls"`
	MediaDir         string         `json:"media_dir"`
	Handoff          *HandoffReport `json:"handoff,omitempty"`
}
