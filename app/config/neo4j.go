package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// InitNeo4j initializes the Neo4j driver and checks that the server is reachable.
func InitNeo4j(ctx context.Context, cfg Neo4j) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create neo4j driver", goerr.V("uri", cfg.URI))
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, goerr.Wrap(err, "failed to connect to neo4j", goerr.V("uri", cfg.URI))
	}
	return driver, nil
}
