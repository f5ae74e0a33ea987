package main

import (
	stdflag "flag"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hnchronicle/hnchronicle/app_setting"
	"github.com/hnchronicle/hnchronicle/curator"
	"github.com/hnchronicle/hnchronicle/hackernews"
	"github.com/hnchronicle/hnchronicle/illustration"
	"github.com/hnchronicle/hnchronicle/scraper"
	"github.com/hnchronicle/hnchronicle/server"
	"github.com/hnchronicle/hnchronicle/server/middlewares"
	"github.com/hnchronicle/hnchronicle/storage"
	"github.com/hnchronicle/hnchronicle/utils/dotenv"
	"github.com/hnchronicle/hnchronicle/utils/flag"
	Logger "github.com/hnchronicle/hnchronicle/utils/log"
)

var settingPath = stdflag.String("scraper_setting", "", "path to the scraper yaml app setting, empty uses defaults")

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

	scrapeSecret := os.Getenv("SCRAPER_SECRET")
	cronSecret := os.Getenv("CRON_SECRET")
	if cronSecret == "" {
		cronSecret = scrapeSecret
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())

	handler := server.ScrapeHandler(pipeline)
	router.POST("/api/scrape", middlewares.BearerAuth(scrapeSecret), handler)
	// The external cron service issues plain GETs.
	router.GET("/api/cron/daily", middlewares.BearerAuth(cronSecret), handler)

	router.GET("/api/posts/latest", server.LatestPostsHandler(gateway))
	router.GET("/api/posts/archive", server.ArchiveHandler(gateway))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	Logger.Log.Info("api server starts up")
	router.Run(":8080")
}
