// Package mongo opens the MongoDB connection used by the profile and
// identity repositories.
//
// Settings come from MONGODB_* variables (see Config). New retries the
// initial connect and ping; Healthcheck plugs into the HTTP readiness probe.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
