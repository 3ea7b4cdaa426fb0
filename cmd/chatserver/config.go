package main

type Config struct {
	BadgerFilepath  string `env:"BADGER_FILEPATH,required=true"`
	LogLevel        string `env:"LOG_LEVEL,required=true"`
	Host            string `env:"HOST,default=localhost"`
	Port            int    `env:"PORT,default=8080"`
	ReadBufferSize  int    `env:"READ_BUFFER_SIZE,default=1024"`
	WriteBufferSize int    `env:"WRITE_BUFFER_SIZE,default=1024"`
}
