// Package docs provides OpenAPI documentation for the Federated Source Admin API
//
//	@title			Federated Source Admin API
//	@version		0.1
//	@description	API for managing federated source configurations and reading source availability.
//	@description	Configuration views carry an "available" flag for configured federated sources,
//	@description	taken from the catalog framework when it runs or from the source itself otherwise.
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@tag.name	configurations
//	@tag.description	Configuration admin entries and their views
//
//	@tag.name	sources
//	@tag.description	Catalog framework source descriptors
//
//	@tag.name	system
//	@tag.description	System health and version information
package main

//go:generate go run github.com/swaggo/swag/v2/cmd/swag@v2.0.0-rc4 init -g docs.go -d ./,../../internal/api,../../internal/admin,../../internal/catalog,../../internal/versions -o ./docs --ot go
