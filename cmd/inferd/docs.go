package main

// @title inferd API
// @version 1.0
// @description HTTP API for single-turn greedy completions against local GGUF models.
// @BasePath /
// @schemes http
