package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWT_RoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	tok, err := signJWT("s3cret", id)
	if err != nil {
		t.Fatal(err)
	}
	got, err := parseJWT("s3cret", tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Errorf("expected %s, got %s", id.Hex(), got.Hex())
	}
}

func TestJWT_Rejects(t *testing.T) {
	id := primitive.NewObjectID()
	tok, _ := signJWT("s3cret", id)

	if _, err := parseJWT("other", tok); err == nil {
		t.Error("expected wrong secret to fail")
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id.Hex(),
		Issuer:    jwtIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	s, _ := expired.SignedString([]byte("s3cret"))
	if _, err := parseJWT("s3cret", s); err == nil {
		t.Error("expected expired token to fail")
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: id.Hex(), Issuer: jwtIssuer})
	s, _ = noExp.SignedString([]byte("s3cret"))
	if _, err := parseJWT("s3cret", s); err == nil {
		t.Error("expected token without exp to fail")
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id.Hex(),
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, _ = foreign.SignedString([]byte("s3cret"))
	if _, err := parseJWT("s3cret", s); err == nil {
		t.Error("expected foreign issuer to fail")
	}
}
