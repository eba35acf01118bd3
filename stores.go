package main

import (
	"context"
	"fmt"

	"github.com/Itish41/portfolio-cms/initializers"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/repository"
	"github.com/Itish41/portfolio-cms/repository/mongorepo"
	"github.com/Itish41/portfolio-cms/repository/sqlrepo"
	services "github.com/Itish41/portfolio-cms/service"
	log "github.com/sirupsen/logrus"
)

// stores are the repositories for the configured driver.
type stores struct {
	portfolio   services.PortfolioRepos
	users       repository.UserRepository
	standards   repository.StandardRepository
	assignments repository.AssignmentRepository
	requests    repository.ApprovalRequestRepository
	templates   services.TemplateRepos
	close       func()
}

func openStores(ctx context.Context, cfg *initializers.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case initializers.DriverPostgres:
		return openPostgres(cfg)
	case initializers.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(cfg *initializers.Config) (*stores, error) {
	if err := initializers.ConnectDB(cfg.DirectURL, cfg.LogLevel == "debug"); err != nil {
		return nil, err
	}
	if err := initializers.Migrate(cfg.MigrationsPath); err != nil {
		initializers.CloseDB()
		return nil, err
	}
	db := initializers.DB
	return &stores{
		portfolio: services.PortfolioRepos{
			Profile:      sqlrepo.NewStore[models.Profile](db),
			Projects:     sqlrepo.NewStore[models.Project](db),
			Skills:       sqlrepo.NewStore[models.Skill](db),
			Blogs:        sqlrepo.NewStore[models.Blog](db),
			Education:    sqlrepo.NewStore[models.Education](db),
			Experience:   sqlrepo.NewStore[models.Experience](db),
			Testimonials: sqlrepo.NewStore[models.Testimonial](db),
		},
		users:       sqlrepo.NewUserStore(db),
		standards:   sqlrepo.NewStandardStore(db),
		assignments: sqlrepo.NewAssignmentStore(db),
		requests:    sqlrepo.NewApprovalRequestStore(db),
		templates: services.TemplateRepos{
			Details:   sqlrepo.NewSoftDeleteStore[models.StandardDetail](db),
			Types:     sqlrepo.NewSoftDeleteStore[models.StandardDetailType](db),
			Templates: sqlrepo.NewSoftDeleteStore[models.StandardTemplate](db),
		},
		close: initializers.CloseDB,
	}, nil
}

func openMongo(ctx context.Context, cfg *initializers.Config) (*stores, error) {
	db, err := initializers.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Warnf("[openMongo] %v", err)
	}
	return &stores{
		portfolio: services.PortfolioRepos{
			Profile:      mongorepo.NewStore[models.Profile](db, models.Profile{}.TableName()),
			Projects:     mongorepo.NewStore[models.Project](db, models.Project{}.TableName()),
			Skills:       mongorepo.NewStore[models.Skill](db, models.Skill{}.TableName()),
			Blogs:        mongorepo.NewStore[models.Blog](db, models.Blog{}.TableName()),
			Education:    mongorepo.NewStore[models.Education](db, models.Education{}.TableName()),
			Experience:   mongorepo.NewStore[models.Experience](db, models.Experience{}.TableName()),
			Testimonials: mongorepo.NewStore[models.Testimonial](db, models.Testimonial{}.TableName()),
		},
		users:       mongorepo.NewUserStore(db),
		standards:   mongorepo.NewStandardStore(db),
		assignments: mongorepo.NewAssignmentStore(db),
		requests:    mongorepo.NewApprovalRequestStore(db),
		templates: services.TemplateRepos{
			Details:   mongorepo.NewSoftDeleteStore[models.StandardDetail](db, models.StandardDetail{}.TableName()),
			Types:     mongorepo.NewSoftDeleteStore[models.StandardDetailType](db, models.StandardDetailType{}.TableName()),
			Templates: mongorepo.NewSoftDeleteStore[models.StandardTemplate](db, models.StandardTemplate{}.TableName()),
		},
		close: initializers.DisconnectMongo,
	}, nil
}

// newMediaStore prefers the Supabase bucket and falls back to local disk.
func newMediaStore(cfg *initializers.Config) (services.MediaStore, string) {
	if cfg.UseS3() {
		s3Store, err := services.NewS3MediaStore(cfg.S3())
		if err == nil {
			log.Println("[newMediaStore] storing uploads in S3 bucket", cfg.SupabaseBucket)
			return s3Store, ""
		}
		log.Warnf("[newMediaStore] %v, falling back to %s", err, cfg.UploadDir)
	}
	local := services.NewLocalMediaStore(cfg.UploadDir)
	return local, local.Dir()
}
