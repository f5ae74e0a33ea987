package app_setting

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// This is the scraper config for pipeline execution. Every knob here is a
// policy choice, not a protocol requirement, and can be tuned per deployment.
type ScraperAppSetting struct {
	// Number of top stories pulled from the front page list per run.
	TOP_STORY_LIMIT int `yaml:"TOP_STORY_LIMIT"`
	// Number of stories the curator keeps for summarization.
	FILTER_LIMIT int `yaml:"FILTER_LIMIT"`
	// Number of comment fetches in flight while walking a story's tree.
	COMMENT_FETCH_BATCH_SIZE int `yaml:"COMMENT_FETCH_BATCH_SIZE"`
	// Number of comment rows written per insert to bound payload size.
	COMMENT_WRITE_BATCH_SIZE int `yaml:"COMMENT_WRITE_BATCH_SIZE"`
	// Number of comments included in the summarization prompt.
	MAX_COMMENTS_IN_PROMPT int `yaml:"MAX_COMMENTS_IN_PROMPT"`
	// Per request timeout against the Hacker News API, in seconds.
	HTTP_TIMEOUT_SECOND int `yaml:"HTTP_TIMEOUT_SECOND"`
	// Where the top stories list comes from: "firebase" or "algolia".
	TOP_STORY_SOURCE string `yaml:"TOP_STORY_SOURCE"`
}

// DefaultScraperAppSetting mirrors the tuning the production pipeline has
// always run with.
func DefaultScraperAppSetting() ScraperAppSetting {
	return ScraperAppSetting{
		TOP_STORY_LIMIT:          50,
		FILTER_LIMIT:             30,
		COMMENT_FETCH_BATCH_SIZE: 10,
		COMMENT_WRITE_BATCH_SIZE: 100,
		MAX_COMMENTS_IN_PROMPT:   50,
		HTTP_TIMEOUT_SECOND:      30,
		TOP_STORY_SOURCE:         "firebase",
	}
}

// ParseScraperAppSetting reads the yaml setting at path, filling any field
// left at zero with its default. An empty path returns the defaults as is.
func ParseScraperAppSetting(path string) (ScraperAppSetting, error) {
	setting := DefaultScraperAppSetting()
	if path == "" {
		return setting, nil
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return setting, errors.Wrap(err, "fail to read scraper app setting")
	}

	parsed := ScraperAppSetting{}
	if err := yaml.Unmarshal(yamlFile, &parsed); err != nil {
		return setting, errors.Wrap(err, "fail to unmarshal scraper app setting")
	}

	mergeSetting(&setting, parsed)
	return setting, nil
}

func mergeSetting(base *ScraperAppSetting, overlay ScraperAppSetting) {
	if overlay.TOP_STORY_LIMIT > 0 {
		base.TOP_STORY_LIMIT = overlay.TOP_STORY_LIMIT
	}
	if overlay.FILTER_LIMIT > 0 {
		base.FILTER_LIMIT = overlay.FILTER_LIMIT
	}
	if overlay.COMMENT_FETCH_BATCH_SIZE > 0 {
		base.COMMENT_FETCH_BATCH_SIZE = overlay.COMMENT_FETCH_BATCH_SIZE
	}
	if overlay.COMMENT_WRITE_BATCH_SIZE > 0 {
		base.COMMENT_WRITE_BATCH_SIZE = overlay.COMMENT_WRITE_BATCH_SIZE
	}
	if overlay.MAX_COMMENTS_IN_PROMPT > 0 {
		base.MAX_COMMENTS_IN_PROMPT = overlay.MAX_COMMENTS_IN_PROMPT
	}
	if overlay.HTTP_TIMEOUT_SECOND > 0 {
		base.HTTP_TIMEOUT_SECOND = overlay.HTTP_TIMEOUT_SECOND
	}
	if overlay.TOP_STORY_SOURCE != "" {
		base.TOP_STORY_SOURCE = overlay.TOP_STORY_SOURCE
	}
}
