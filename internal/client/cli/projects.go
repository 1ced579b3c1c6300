package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// ListProjects prints every project as a table.
func (a *App) ListProjects(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	projects, err := a.api.ListProjects(ctx)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tCREATED BY\tCREATED AT")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Description, p.CreatedBy, p.CreatedAt)
	}
	return w.Flush()
}

// NewProject prompts for a name and a description and creates the project.
// The server only allows this for admins.
func (a *App) NewProject(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	name, err := getSimpleText(a.reader, "Enter project name", a.out)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	p, err := a.api.CreateProject(ctx, name, description)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created project %s (id=%s)\n", p.Name, p.ID)
	return nil
}

// RemoveProject prompts for a project id and deletes it (admin only).
func (a *App) RemoveProject(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := getSimpleText(a.reader, "Enter project ID", a.out)
	if err != nil {
		return err
	}

	if err := a.api.DeleteProject(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Deleted")
	return nil
}
