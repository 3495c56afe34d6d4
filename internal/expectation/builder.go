package expectation

import "fmt"

const (
	duplicateKeyTemplateConstant = "duplicate key %q in [%s] of %s for role %s"
)

// documentBuilder accumulates settings while preserving first-seen order and
// merging repeated role, file, and stanza blocks.
type documentBuilder struct {
	document Document
}

func newDocumentBuilder(origin Origin) *documentBuilder {
	return &documentBuilder{document: Document{Origin: origin}}
}

func (builder *documentBuilder) add(role Role, fileName string, stanzaName string, setting Setting) error {
	roleBlock := builder.roleBlock(role)
	fileBlock := roleBlock.fileBlock(fileName)
	stanzaBlock := fileBlock.stanzaBlock(stanzaName)
	for _, existing := range stanzaBlock.Settings {
		if existing.Key == setting.Key {
			return fmt.Errorf(duplicateKeyTemplateConstant, setting.Key, stanzaName, fileName, role)
		}
	}
	stanzaBlock.Settings = append(stanzaBlock.Settings, setting)
	return nil
}

func (builder *documentBuilder) build() Document {
	return pruneEmpty(builder.document)
}

func (builder *documentBuilder) roleBlock(role Role) *RoleBlock {
	for index := range builder.document.Roles {
		if builder.document.Roles[index].Role == role {
			return &builder.document.Roles[index]
		}
	}
	builder.document.Roles = append(builder.document.Roles, RoleBlock{Role: role})
	return &builder.document.Roles[len(builder.document.Roles)-1]
}

func (roleBlock *RoleBlock) fileBlock(fileName string) *FileBlock {
	for index := range roleBlock.Files {
		if roleBlock.Files[index].Name == fileName {
			return &roleBlock.Files[index]
		}
	}
	roleBlock.Files = append(roleBlock.Files, FileBlock{Name: fileName})
	return &roleBlock.Files[len(roleBlock.Files)-1]
}

func (fileBlock *FileBlock) stanzaBlock(stanzaName string) *StanzaBlock {
	for index := range fileBlock.Stanzas {
		if fileBlock.Stanzas[index].Name == stanzaName {
			return &fileBlock.Stanzas[index]
		}
	}
	fileBlock.Stanzas = append(fileBlock.Stanzas, StanzaBlock{Name: stanzaName})
	return &fileBlock.Stanzas[len(fileBlock.Stanzas)-1]
}

// pruneEmpty drops stanzas, files, and roles that ended up without settings.
func pruneEmpty(document Document) Document {
	pruned := Document{Origin: document.Origin}
	for _, roleBlock := range document.Roles {
		keptRole := RoleBlock{Role: roleBlock.Role}
		for _, fileBlock := range roleBlock.Files {
			keptFile := FileBlock{Name: fileBlock.Name}
			for _, stanzaBlock := range fileBlock.Stanzas {
				if len(stanzaBlock.Settings) > 0 {
					keptFile.Stanzas = append(keptFile.Stanzas, stanzaBlock)
				}
			}
			if len(keptFile.Stanzas) > 0 {
				keptRole.Files = append(keptRole.Files, keptFile)
			}
		}
		if len(keptRole.Files) > 0 {
			pruned.Roles = append(pruned.Roles, keptRole)
		}
	}
	return pruned
}
