package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"readinggame/internal/models"
)

func newContentCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Browse and edit categories, groups and words",
		Example: "  gamectl content list\n" +
			"  gamectl content add-category --name Animals --icon 🐄 --store remote --user <id>\n" +
			"  gamectl content update-word word-1 --text \"\"",
	}
	cmd.AddCommand(
		newContentListCommand(rt),
		newContentShowGroupCommand(rt),
		newAddCategoryCommand(rt),
		newAddGroupCommand(rt),
		newAddWordCommand(rt),
		newUpdateCategoryCommand(rt),
		newUpdateGroupCommand(rt),
		newUpdateWordCommand(rt),
		newDeleteCommand(rt),
	)
	return cmd
}

// optionalString returns a pointer to v only when the flag was given, so an
// explicit empty value clears the field and an omitted flag leaves it alone
func optionalString(cmd *cobra.Command, name, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func newContentListCommand(rt *runtime) *cobra.Command {
	var sf storeFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories with their groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			categories, err := store.GetCategoriesWithGroups(ctx)
			if err != nil {
				return err
			}
			return printJSON(rt.out, categories)
		},
	}
	sf.register(cmd)
	return cmd
}

func newContentShowGroupCommand(rt *runtime) *cobra.Command {
	var sf storeFlags
	cmd := &cobra.Command{
		Use:   "show-group <id>",
		Short: "Show a group with its words in play order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			group, err := store.GetGroupWithWords(ctx, args[0])
			if err != nil {
				return err
			}
			if group == nil {
				return fmt.Errorf("group %s not found", args[0])
			}
			return printJSON(rt.out, group)
		},
	}
	sf.register(cmd)
	return cmd
}

func newAddCategoryCommand(rt *runtime) *cobra.Command {
	var (
		sf       storeFlags
		category models.Category
	)
	cmd := &cobra.Command{
		Use:   "add-category",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			created, err := store.AddCategory(ctx, category)
			if err != nil {
				return err
			}
			return printJSON(rt.out, created)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&category.ID, "id", "", "Category id (generated when empty)")
	cmd.Flags().StringVar(&category.Name, "name", "", "Category name (required)")
	cmd.Flags().StringVar(&category.Description, "description", "", "Description")
	cmd.Flags().StringVar(&category.Icon, "icon", "", "Icon, usually an emoji")
	return cmd
}

func newAddGroupCommand(rt *runtime) *cobra.Command {
	var (
		sf         storeFlags
		group      models.Group
		difficulty string
	)
	cmd := &cobra.Command{
		Use:   "add-group",
		Short: "Create a group inside a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			group.Difficulty = models.Difficulty(difficulty)
			created, err := store.AddGroup(ctx, group)
			if err != nil {
				return err
			}
			return printJSON(rt.out, created)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&group.ID, "id", "", "Group id (generated when empty)")
	cmd.Flags().StringVar(&group.CategoryID, "category", "", "Parent category id (required)")
	cmd.Flags().StringVar(&group.Name, "name", "", "Group name")
	cmd.Flags().StringVar(&group.Description, "description", "", "Description")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard (medium when empty)")
	cmd.Flags().StringVar(&group.FinalRewardText, "reward-text", "", "Reward shown after the last word (required)")
	cmd.Flags().StringVar(&group.FinalRewardImage, "reward-image", "", "Reward image URL")
	return cmd
}

func newAddWordCommand(rt *runtime) *cobra.Command {
	var (
		sf          storeFlags
		word        models.Word
		contentType string
		operator    string
	)
	cmd := &cobra.Command{
		Use:   "add-word",
		Short: "Create a word inside a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			word.ContentType = models.ContentType(contentType)
			word.MathOperator = models.MathOperator(operator)
			created, err := store.AddWord(ctx, word)
			if err != nil {
				return err
			}
			return printJSON(rt.out, created)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&word.ID, "id", "", "Word id (generated when empty)")
	cmd.Flags().StringVar(&word.GroupID, "group", "", "Parent group id (required)")
	cmd.Flags().StringVar(&word.Text, "text", "", "Sentence or word to read")
	cmd.Flags().StringVar(&word.ImageSrc, "image", "", "Image URL or bundled asset path (required)")
	cmd.Flags().IntVar(&word.Order, "order", 0, "Position inside the group")
	cmd.Flags().StringVar(&contentType, "content-type", "", "word or math (word when empty)")
	cmd.Flags().StringVar(&word.MathQuestion, "math-question", "", "Math question")
	cmd.Flags().StringVar(&word.MathAnswer, "math-answer", "", "Math answer")
	cmd.Flags().StringVar(&operator, "math-operator", "", "One of + - × ÷")
	return cmd
}

func newUpdateCategoryCommand(rt *runtime) *cobra.Command {
	var (
		sf          storeFlags
		name        string
		description string
		icon        string
	)
	cmd := &cobra.Command{
		Use:   "update-category <id>",
		Short: "Change the given fields of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			updated, err := store.UpdateCategory(ctx, args[0], models.CategoryUpdate{
				Name:        optionalString(cmd, "name", name),
				Description: optionalString(cmd, "description", description),
				Icon:        optionalString(cmd, "icon", icon),
			})
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("category %s not found", args[0])
			}
			return printJSON(rt.out, updated)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description, empty to clear")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon, empty to clear")
	return cmd
}

func newUpdateGroupCommand(rt *runtime) *cobra.Command {
	var (
		sf          storeFlags
		categoryID  string
		name        string
		description string
		difficulty  string
		rewardText  string
		rewardImage string
	)
	cmd := &cobra.Command{
		Use:   "update-group <id>",
		Short: "Change the given fields of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			update := models.GroupUpdate{
				CategoryID:       optionalString(cmd, "category", categoryID),
				Name:             optionalString(cmd, "name", name),
				Description:      optionalString(cmd, "description", description),
				FinalRewardText:  optionalString(cmd, "reward-text", rewardText),
				FinalRewardImage: optionalString(cmd, "reward-image", rewardImage),
			}
			if cmd.Flags().Changed("difficulty") {
				d := models.Difficulty(difficulty)
				update.Difficulty = &d
			}
			updated, err := store.UpdateGroup(ctx, args[0], update)
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("group %s not found", args[0])
			}
			return printJSON(rt.out, updated)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&categoryID, "category", "", "Move to another category")
	cmd.Flags().StringVar(&name, "name", "", "New name, empty to clear")
	cmd.Flags().StringVar(&description, "description", "", "New description, empty to clear")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard, empty to reset")
	cmd.Flags().StringVar(&rewardText, "reward-text", "", "New reward text")
	cmd.Flags().StringVar(&rewardImage, "reward-image", "", "New reward image, empty to clear")
	return cmd
}

func newUpdateWordCommand(rt *runtime) *cobra.Command {
	var (
		sf          storeFlags
		groupID     string
		text        string
		image       string
		order       int
		contentType string
		question    string
		answer      string
		op          string
	)
	cmd := &cobra.Command{
		Use:   "update-word <id>",
		Short: "Change the given fields of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			update := models.WordUpdate{
				GroupID:      optionalString(cmd, "group", groupID),
				Text:         optionalString(cmd, "text", text),
				ImageSrc:     optionalString(cmd, "image", image),
				MathQuestion: optionalString(cmd, "math-question", question),
				MathAnswer:   optionalString(cmd, "math-answer", answer),
			}
			if cmd.Flags().Changed("order") {
				update.Order = &order
			}
			if cmd.Flags().Changed("content-type") {
				ct := models.ContentType(contentType)
				update.ContentType = &ct
			}
			if cmd.Flags().Changed("math-operator") {
				mo := models.MathOperator(op)
				update.MathOperator = &mo
			}
			updated, err := store.UpdateWord(ctx, args[0], update)
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("word %s not found", args[0])
			}
			return printJSON(rt.out, updated)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&groupID, "group", "", "Move to another group")
	cmd.Flags().StringVar(&text, "text", "", "New text, empty to clear")
	cmd.Flags().StringVar(&image, "image", "", "New image")
	cmd.Flags().IntVar(&order, "order", 0, "New position")
	cmd.Flags().StringVar(&contentType, "content-type", "", "word or math, empty to reset")
	cmd.Flags().StringVar(&question, "math-question", "", "New math question")
	cmd.Flags().StringVar(&answer, "math-answer", "", "New math answer")
	cmd.Flags().StringVar(&op, "math-operator", "", "New math operator")
	return cmd
}

func newDeleteCommand(rt *runtime) *cobra.Command {
	var sf storeFlags
	cmd := &cobra.Command{
		Use:       "delete <category|group|word> <id>",
		Short:     "Delete a record and everything beneath it",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"category", "group", "word"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			kind, id := args[0], args[1]
			switch kind {
			case "category":
				err = store.DeleteCategory(ctx, id)
			case "group":
				err = store.DeleteGroup(ctx, id)
			case "word":
				err = store.DeleteWord(ctx, id)
			default:
				return usageErrorf("unknown record kind %q: want category, group or word", kind)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(rt.out, "deleted %s %s\n", kind, id)
			return err
		},
	}
	sf.register(cmd)
	return cmd
}
