// Package storage writes collected files to disk.
//
// A Manager owns one directory and a file extension. Save streams a reader
// into a temporary file in the same directory and renames it into place, so
// readers only ever observe complete files. Writing the same stem twice
// overwrites the earlier file.
//
//	images, err := storage.NewManager("nasa_media", ".jpg")
//	path, err := images.Save(resp.Body, "ABC123") // nasa_media/ABC123.jpg
//
//	path, err := storage.WriteLines("nasa_videos.txt", urls)
package storage
