package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	MenuCollection        *mongo.Collection
	CartCollection        *mongo.Collection
	OrderCollection       *mongo.Collection
	VoucherCollection     *mongo.Collection
	UserCollection        *mongo.Collection
	CoinLedgerCollection  *mongo.Collection
	TransactionCollection *mongo.Collection
	FeedbackCollection    *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("kedaidb")
	MenuCollection = database.Collection("menu")
	CartCollection = database.Collection("carts")
	OrderCollection = database.Collection("orders")
	VoucherCollection = database.Collection("vouchers")
	UserCollection = database.Collection("users")
	CoinLedgerCollection = database.Collection("coinledger")
	TransactionCollection = database.Collection("transactions")
	FeedbackCollection = database.Collection("feedback")
}
