package main

import (
	"log"

	"mediabot/bot"
	"mediabot/config"
	"mediabot/database"
	"mediabot/handlers"

	"github.com/spf13/viper"
)

func main() {
	config.LoadConfig()

	store, err := database.New(viper.GetString("bot.dbPath"))
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer store.Close()

	bot.Run(store, handlers.Register)
}
