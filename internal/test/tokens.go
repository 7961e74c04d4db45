package test

import (
	"math/rand"
	"strings"
)

// validTokens holds one sample of every token shape, separated by ';'.
const validTokens = "def;let;if;else;main;add_2;_x;Point;(;);[;];{;};,;.;!;=;+;-;*;/;==;!=;<;<=;>;>=;&&;||;->;0;42;-7;3.25;-0.5;123456789"

func Samples() []string {
	return strings.Split(validTokens, ";")
}

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := Samples()

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
