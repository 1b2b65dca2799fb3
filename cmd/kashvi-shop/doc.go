// Command kashvi-shop runs the shop API and its maintenance tasks.
//
//	kashvi-shop serve              # HTTP + gRPC, queue workers, websocket hub
//	kashvi-shop migrate            # run pending migrations
//	kashvi-shop migrate:rollback
//	kashvi-shop migrate:status
//	kashvi-shop db:seed            # admin account and starter categories
//	kashvi-shop route:list         # every route with its required roles
//	kashvi-shop queue:work         # standalone queue worker
//	kashvi-shop make:migration add_orders_status_index
//
// Configuration comes from config/app.json, .env and the environment.
package main
