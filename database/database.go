package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	postRepo       *PostRepo
	commentRepo    *CommentRepo
	subscriberRepo *SubscriberRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		postRepo:       NewPostRepo(db),
		commentRepo:    NewCommentRepo(db),
		subscriberRepo: NewSubscriberRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) SubscriberRepo() *SubscriberRepo {
	return d.subscriberRepo
}

// Ping runs a trivial query so it exercises the same path as real requests.
func (d Database) Ping(ctx context.Context) error {
	var result int
	if err := d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// ProductName is the human readable name of the connected database engine.
func (d Database) ProductName() string {
	switch d.db.Dialector.Name() {
	case "postgres":
		return "PostgreSQL"
	case "sqlite":
		return "SQLite"
	case "mysql":
		return "MySQL"
	default:
		return d.db.Dialector.Name()
	}
}

// Close releases the underlying connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
