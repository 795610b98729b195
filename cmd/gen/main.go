package main

import (
	"HeartHabit/internal/repository"
	"HeartHabit/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
