package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s2inspect/memlayout"
	"github.com/s2inspect/memlayout/memory"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the schema and report diagnostics",
		Args:  exactArgs(0),
		RunE: a.loaded(func([]string) error {
			for _, d := range a.schema.Diagnostics() {
				if err := writef(a.stdout, "warning: %s\n", d.Error()); err != nil {
					return err
				}
			}
			return writef(a.stdout, "schema ok: %d structs, %d entity subclasses, %d default entity types, %d diagnostics\n",
				len(a.schema.StructNames()), len(a.schema.SubclassNames()), len(a.schema.Classifiers()), len(a.schema.Diagnostics()))
		}),
	}
}

func (a *app) sizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "size <type>...",
		Short: "Print the size and alignment of types",
		Args:  minimumArgs(1),
		RunE: a.loaded(func(args []string) error {
			for _, name := range args {
				size := a.schema.TypeSize(name)
				if size == 0 && a.schema.IsEntitySubclass(name) {
					size = a.schema.SubclassSize(name)
				}
				if err := writef(a.stdout, "%s\tsize=%d\talign=%d\n", name, size, a.schema.TypeAlignment(name)); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func (a *app) fieldList(name string) (memlayout.FieldList, error) {
	if fields := a.schema.Fields(name); fields != nil {
		return fields, nil
	}
	if tag, ok := a.schema.BuiltinType(name); ok {
		if fields := a.schema.RootFields(tag); fields != nil {
			return fields, nil
		}
	}
	if fields := a.schema.SubclassFields(name); fields != nil {
		return fields, nil
	}
	return nil, fmt.Errorf("unknown type %s", name)
}

func (a *app) fieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <type>",
		Short: "List the fields of a struct with their offsets",
		Args:  exactArgs(1),
		RunE: a.loaded(func(args []string) error {
			fields, err := a.fieldList(args[0])
			if err != nil {
				return err
			}
			var offset uint64
			for _, f := range fields {
				size := a.schema.SizeOf(f)
				ptr := ""
				if f.Pointer {
					ptr = "*"
				}
				cpp := ""
				if name := memlayout.TagCPPName(f.Tag); name != "" {
					cpp = "\t" + name
				}
				if err := writef(a.stdout, "%#06x\t%s\t%s%s\tsize=%d%s\n", offset, f.Name, f.TypeName, ptr, size, cpp); err != nil {
					return err
				}
				offset += size
			}
			return nil
		}),
	}
}

func (a *app) layoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <type>",
		Short: "Print the flattened layout of a type",
		Args:  exactArgs(1),
		RunE: a.loaded(func(args []string) error {
			slots := a.schema.Layout(args[0])
			if slots == nil {
				return fmt.Errorf("unknown type %s", args[0])
			}
			for _, s := range slots {
				indent := strings.Repeat("  ", s.Depth)
				kind := memlayout.TagDisplayName(s.Field.Tag)
				if kind == "" {
					kind = s.Field.TypeName
				}
				if err := writef(a.stdout, "%#06x\t%s%s\tsize=%d\talign=%d\t%s\n", s.Offset, indent, s.Field.Name, s.Size, s.Align, kind); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func (a *app) offsetCommand() *cobra.Command {
	var (
		baseText      string
		imagePath     string
		imageBaseText string
	)
	cmd := &cobra.Command{
		Use:   "offset <type> <path>",
		Short: "Resolve a dotted field path to an address",
		Args:  exactArgs(2),
		RunE: a.loaded(func(args []string) error {
			fields, err := a.fieldList(args[0])
			if err != nil {
				return err
			}
			base, err := parseAddress(baseText)
			if err != nil {
				return err
			}
			var mem memory.Reader
			if imagePath != "" {
				imageBase, err := parseAddress(imageBaseText)
				if err != nil {
					return err
				}
				img, err := readImage(imagePath, imageBase)
				if err != nil {
					return err
				}
				mem = img
			}
			addr, err := a.schema.ResolveOffset(mem, fields, args[1], base)
			if err != nil {
				return err
			}
			return writef(a.stdout, "%#x\n", addr)
		}),
	}
	cmd.Flags().StringVar(&baseText, "base", "0", "address of the struct")
	cmd.Flags().StringVar(&imagePath, "image", "", "raw memory image used to follow pointers")
	cmd.Flags().StringVar(&imageBaseText, "image-base", "0", "address the memory image is mapped at")
	return cmd
}

func (a *app) hierarchyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy <entity-type>",
		Short: "Print the class chain of an entity type name",
		Args:  exactArgs(1),
		RunE: a.loaded(func(args []string) error {
			chain, err := a.schema.ClassHierarchy(args[0])
			if err != nil {
				return err
			}
			return writeln(a.stdout, strings.Join(chain, " -> "))
		}),
	}
}

func (a *app) vtableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vtable <type>",
		Short: "List the virtual functions of a type, most derived first",
		Args:  exactArgs(1),
		RunE: a.loaded(func(args []string) error {
			funcs, err := a.schema.VirtualFunctions(args[0])
			if err != nil {
				return err
			}
			for _, f := range funcs {
				if err := writef(a.stdout, "%d\t%s %s(%s)\t[%s]\n", f.Index, f.Return, f.Name, f.Params, f.Owner); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func (a *app) refCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ref <name>",
		Short: "Print the entries of a ref table",
		Args:  exactArgs(1),
		RunE: a.loaded(func(args []string) error {
			entries := a.schema.RefTitles(args[0])
			if entries == nil {
				return fmt.Errorf("unknown ref table %s", args[0])
			}
			for _, e := range entries {
				if err := writef(a.stdout, "%d\t%s\n", e.Code, e.Label); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}
