// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Activity ID (e.g., rental.budget.suggest)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Suggest Budget)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., rental)")
	taskType := addCmd.String("taskType", "", "Zeebe Task Type (e.g., suggest-budget)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	timeout := addCmd.String("timeout", "10s", "Job timeout")

	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, description, displayName, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	exportPath := exportCmd.String("path", defaultRegistryPath, "Destination for the embedded registry")
	overwrite := exportCmd.Bool("force", false, "Overwrite an existing file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, category, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		err = addActivity(*addPath, newActivity(*idAdd, *displayName, *description, *category, *taskType, *version, *implStatus, *timeout))
		if err == nil {
			fmt.Printf("Added activity: %s\n", *idAdd)
		}

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err = updateActivity(*updatePath, *idUpdate, *field, *value)
		if err == nil {
			fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)
		}

	case "validate":
		validateCmd.Parse(os.Args[2:])
		var count int
		count, err = validateRegistry(*validatePath)
		if err == nil {
			fmt.Printf("Registry validation passed (%d activities).\n", count)
		}

	case "export":
		exportCmd.Parse(os.Args[2:])
		err = exportDefault(*exportPath, *overwrite)
		if err == nil {
			fmt.Printf("Wrote embedded registry to %s\n", *exportPath)
		}

	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: registry-updater <command> [flags]")
	fmt.Println("\nCommands:")
	fmt.Println("  add       Add a new activity")
	fmt.Println("  update    Update a field of an existing activity")
	fmt.Println("  validate  Validate the registry and compile its input schemas")
	fmt.Println("  export    Write the embedded default registry to disk")
	fmt.Println("\nRun 'registry-updater <command> -h' for command flags.")
}
