package main

import (
	"context"
	stdflag "flag"
	"os"

	"github.com/hnchronicle/hnchronicle/app_setting"
	"github.com/hnchronicle/hnchronicle/curator"
	"github.com/hnchronicle/hnchronicle/hackernews"
	"github.com/hnchronicle/hnchronicle/illustration"
	"github.com/hnchronicle/hnchronicle/scraper"
	"github.com/hnchronicle/hnchronicle/storage"
	"github.com/hnchronicle/hnchronicle/utils/dotenv"
	"github.com/hnchronicle/hnchronicle/utils/flag"
	Logger "github.com/hnchronicle/hnchronicle/utils/log"
	"github.com/robfig/cron/v3"
)

var (
	settingPath = stdflag.String("scraper_setting", "", "path to the scraper yaml app setting, empty uses defaults")
	cronSpec    = stdflag.String("cron", "", "cron spec for scheduled runs, e.g. '0 6 * * *'. empty runs once and exits")
)

const defaultModel = "gpt-4o-mini"

func buildScraper(gateway *storage.Gateway, setting app_setting.ScraperAppSetting) *scraper.Scraper {
	client := hackernews.NewClient(hackernews.ClientConfig{
		CommentBatchSize: setting.COMMENT_FETCH_BATCH_SIZE,
		TimeoutSecond:    setting.HTTP_TIMEOUT_SECOND,
	})

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}
	completer := curator.NewOpenAICompleter(os.Getenv("OPENAI_API_KEY"), model)
	ranker := curator.NewCurator(curator.CuratorConfig{
		Completer:         completer,
		MaxPromptComments: setting.MAX_COMMENTS_IN_PROMPT,
	})

	return scraper.NewScraper(client, ranker, illustration.NewService(completer), gateway, setting)
}

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	flag.Parse()
	Logger.InitLogger()

	setting, err := app_setting.ParseScraperAppSetting(*settingPath)
	if err != nil {
		Logger.Log.Fatal("fail to load scraper app setting: ", err)
	}

	db, err := storage.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect to database: ", err)
	}
	if err := storage.DatabaseSetupAndMigration(db); err != nil {
		Logger.Log.Fatal("fail to migrate database: ", err)
	}
	gateway := storage.NewGateway(db, storage.GatewayConfig{
		CommentWriteBatchSize: setting.COMMENT_WRITE_BATCH_SIZE,
	})

	pipeline := buildScraper(gateway, setting)

	if *cronSpec == "" {
		report := pipeline.Run(context.Background())
		if !report.Success {
			Logger.Log.Fatal(report.Message)
		}
		return
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(*cronSpec, func() {
		pipeline.Run(context.Background())
	}); err != nil {
		Logger.Log.Fatal("fail to schedule scraper: ", err)
	}
	Logger.Log.Info("scraper scheduled with spec: ", *cronSpec)
	scheduler.Run()
}
