package server

import "github.com/hnchronicle/hnchronicle/model"

// Wire shapes of the read API. They flatten the gorm rows so the website
// never sees internal keys it has no use for.

type postResponse struct {
	HnId        int     `json:"hn_id"`
	Title       string  `json:"title"`
	Url         *string `json:"url"`
	Score       int     `json:"score"`
	By          string  `json:"by"`
	Descendants int     `json:"descendants"`
}

type summaryResponse struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	ImagePrompt string `json:"image_prompt"`
	ImageUrl    string `json:"image_url"`
}

type frontPageEntry struct {
	Rank       int              `json:"rank"`
	FilterDate string           `json:"filter_date"`
	Post       postResponse     `json:"post"`
	Summary    *summaryResponse `json:"summary"`
}

func toFrontPageEntries(filteredPosts []model.FilteredPost) []frontPageEntry {
	entries := []frontPageEntry{}
	for _, filteredPost := range filteredPosts {
		entry := frontPageEntry{
			Rank:       filteredPost.Rank,
			FilterDate: filteredPost.FilterDate,
			Post: postResponse{
				HnId:        filteredPost.HNPost.HnId,
				Title:       filteredPost.HNPost.Title,
				Url:         filteredPost.HNPost.Url,
				Score:       filteredPost.HNPost.Score,
				By:          filteredPost.HNPost.By,
				Descendants: filteredPost.HNPost.Descendants,
			},
		}
		if filteredPost.Summary != nil {
			entry.Summary = &summaryResponse{
				Title:       filteredPost.Summary.Title,
				Summary:     filteredPost.Summary.Summary,
				ImagePrompt: filteredPost.Summary.ImagePrompt,
				ImageUrl:    filteredPost.Summary.ImageUrl,
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
