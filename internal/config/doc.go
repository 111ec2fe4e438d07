// Package config provides configuration management for samctl.
//
// A config file declares the component graph of the test environment and
// the run-wide global settings. Configs can layer: a file may name a
// "base" config which is loaded first, with the file's own components
// replacing same-named base components and its global settings overriding
// the base field by field.
//
// # Configuration Structure
//
//	name: my-environment
//	base: ../common/config.yaml
//
//	components:
//	  - name: database
//	    type: container
//	    image: docker.io/library/postgres:16
//	    start_by_default: true
//	    ports:
//	      - host: 5432
//	        container: 5432
//	    environment:
//	      - POSTGRES_PASSWORD=secret
//	  - name: backend
//	    type: pod
//	    dependencies: [database]
//	    start_by_default: true
//	    containers:
//	      - name: api
//	        image: example.com/api:latest
//	  - name: worker
//	    type: process
//	    dependencies: [backend]
//	    command: ["./worker", "--dev"]
//
//	reset:
//	  - rm -rf ./data
//
//	global:
//	  scripts: [tests]
//	  filter: checkout
//	  skip: flaky
//
// # Validation
//
// Load validates the graph eagerly: component names must be unique, every
// dependency must reference a declared component, self-dependencies are
// rejected, and each component type must carry its required launch
// parameters. Dependency cycles are reported later, when the environment
// fails to make start-order progress.
package config
